package services

import (
	"log"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/config"
	"github.com/readhaven/readhaven/db"
	apiError "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/mailingservices"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/services/jwt"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(accessToken string) error
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	GetAllUsers() ([]models.User, error)
	SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
	ChangeUserRole(targetUserID uint, roleName string) *apiError.Error
	FollowUser(followerID, followedID uint) *apiError.Error
	UnfollowUser(followerID, followedID uint) *apiError.Error
}

// authService struct
type authService struct {
	Config     *config.Config
	authRepo   db.AuthRepository
	folderRepo db.FolderRepository
	mail       mailingservices.Mailer
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, folderRepo db.FolderRepository, mail mailingservices.Mailer, conf *config.Config) AuthService {
	return &authService{
		Config:     conf,
		authRepo:   authRepo,
		folderRepo: folderRepo,
		mail:       mail,
	}
}

// SignupUser registers the user and initializes their default shelves and folders.
func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("SignupUser error: user is nil")
		return nil, errors.New("user is nil")
	}

	if err := models.NormalizeUser(user); err != nil {
		log.Printf("SignupUser error normalizing fields: %v", err)
		return nil, apiError.ErrBadRequest
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""

	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := s.folderRepo.InitUserShelves(user.ID); err != nil {
		log.Printf("SignupUser error initializing shelves: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if err := s.folderRepo.InitUserFolders(user.ID); err != nil {
		log.Printf("SignupUser error initializing folders: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return s.authRepo.FindUserByID(user.ID)
}

// LoginUser logs in a user and returns the login response
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	accessToken, err := jwt.GenerateToken(foundUser.ID, foundUser.Role.Name, s.Config.JWTSecret)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:           foundUser.ID,
			Name:         foundUser.Name,
			Email:        foundUser.Email,
			RoleName:     foundUser.Role.Name,
			ThumbNailURL: foundUser.ThumbNailURL,
		},
		AccessToken: accessToken,
	}, nil
}

func (s *authService) LogoutUser(accessToken string) error {
	return s.authRepo.AddToBlackList(&models.Blacklist{Token: accessToken})
}

func (s *authService) GetUserProfile(userID uint) (*models.User, error) {
	return s.authRepo.FindUserByID(userID)
}

func (s *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	return s.authRepo.EditUserProfile(userID, details)
}

func (s *authService) GetAllUsers() ([]models.User, error) {
	return s.authRepo.GetAllUsers()
}

func (s *authService) SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error {
	foundUser, err := s.authRepo.FindUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// do not reveal whether the address is registered
			return nil
		}
		return apiError.ErrInternalServerError
	}

	resetToken, err := jwt.GeneratePasswordResetToken(foundUser.Email, s.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	if s.mail != nil {
		if err := s.mail.SendResetPasswordMail(foundUser.Email, resetToken); err != nil {
			log.Printf("error sending reset mail: %v", err)
			return apiError.ErrInternalServerError
		}
	}
	return nil
}

func (s *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	claims, err := jwt.ValidateAndGetClaims(token, s.Config.JWTSecret)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	email, ok := claims["email"].(string)
	if !ok || claims["reset"] != true {
		return apiError.New("invalid reset token", http.StatusUnauthorized)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError.ErrInternalServerError
	}

	if err := s.authRepo.UpdatePassword(string(hashedPassword), email); err != nil {
		log.Printf("error updating password: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// ChangeUserRole updates the target user's role. The last remaining admin
// cannot be demoted, so the platform always keeps at least one admin.
func (s *authService) ChangeUserRole(targetUserID uint, roleName string) *apiError.Error {
	target, err := s.authRepo.FindUserByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("user not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}

	if target.IsAdmin() && roleName != models.RoleAdmin {
		adminCount, err := s.authRepo.CountUsersWithRole(models.RoleAdmin)
		if err != nil {
			return apiError.ErrInternalServerError
		}
		if adminCount <= 1 {
			return apiError.New("cannot demote the last admin", http.StatusForbidden)
		}
	}

	role, err := s.authRepo.FindRoleByName(roleName)
	if err != nil {
		return apiError.New("role not found", http.StatusNotFound)
	}

	if err := s.authRepo.ChangeUserRole(targetUserID, role.ID); err != nil {
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) FollowUser(followerID, followedID uint) *apiError.Error {
	if followerID == followedID {
		return apiError.New("cannot follow yourself", http.StatusBadRequest)
	}
	if _, err := s.authRepo.FindUserByID(followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("user not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}
	if err := s.authRepo.FollowUser(followerID, followedID); err != nil {
		log.Printf("FollowUser error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) UnfollowUser(followerID, followedID uint) *apiError.Error {
	if err := s.authRepo.UnfollowUser(followerID, followedID); err != nil {
		log.Printf("UnfollowUser error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
