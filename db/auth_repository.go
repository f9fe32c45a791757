package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdatePassword(password string, email string) error
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	GetAllUsers() ([]models.User, error)
	FindFirstAdmin() (*models.User, error)
	FindRoleByName(name string) (*models.Role, error)
	CountUsersWithRole(name string) (int64, error)
	ChangeUserRole(userID uint, roleID uuid.UUID) error
	FollowUser(followerID, followedID uint) error
	UnfollowUser(followerID, followedID uint) error
	ListFollowingIDs(userID uint) ([]uint, error)
	UpdateUserOnlineStatus(userID uint, online bool) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("CreateUser error: user is nil")
		return nil, errors.New("user is nil")
	}

	if user.RoleID == uuid.Nil {
		var defaultRole models.Role
		if err := a.DB.Where("name = ?", models.RoleUser).First(&defaultRole).Error; err != nil {
			log.Printf("CreateUser error fetching default role: %v", err)
			return nil, err
		}
		user.RoleID = defaultRole.ID
	}

	if err := a.DB.Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, err
	}

	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) UpdatePassword(password string, email string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).Update("hashed_password", password).Error
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	var user models.User
	if err := a.DB.First(&user, userID).Error; err != nil {
		return err
	}

	if details.Name != "" {
		user.Name = details.Name
	}
	if details.ThumbNailURL != "" {
		user.ThumbNailURL = details.ThumbNailURL
	}

	return a.DB.Save(&user).Error
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func normalizeToken(token string) string {
	return strings.TrimSpace(token)
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", normalizeToken(token)).Count(&count)
	return count > 0
}

func (a *authRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	result := a.DB.Preload("Role").Find(&users)
	if result.Error != nil {
		log.Printf("Error fetching all users: %v", result.Error)
		return nil, result.Error
	}
	return users, nil
}

func (a *authRepo) FindFirstAdmin() (*models.User, error) {
	var admin models.User
	err := a.DB.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Order("users.id ASC").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Role not found:", name)
			return nil, errors.New("role not found")
		}
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) CountUsersWithRole(name string) (int64, error) {
	var count int64
	err := a.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", name).
		Count(&count).Error
	return count, err
}

func (a *authRepo) ChangeUserRole(userID uint, roleID uuid.UUID) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("role_id", roleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) FollowUser(followerID, followedID uint) error {
	follower := models.User{Model: models.Model{ID: followerID}}
	followed := models.User{Model: models.Model{ID: followedID}}
	return a.DB.Model(&follower).Association("Following").Append(&followed)
}

func (a *authRepo) UnfollowUser(followerID, followedID uint) error {
	follower := models.User{Model: models.Model{ID: followerID}}
	followed := models.User{Model: models.Model{ID: followedID}}
	return a.DB.Model(&follower).Association("Following").Delete(&followed)
}

func (a *authRepo) ListFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := a.DB.Table("user_follows").
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm pluck error")
	}
	return ids, nil
}

func (a *authRepo) UpdateUserOnlineStatus(userID uint, online bool) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("online", online)
	if result.Error != nil {
		log.Printf("Error updating user status: %v", result.Error)
		return result.Error
	}
	return nil
}
