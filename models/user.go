package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered reader of the platform
type User struct {
	Model
	Name           string     `json:"name" binding:"required,min=2" conform:"trim"`
	Email          string     `json:"email" gorm:"unique;not null" binding:"required,email" conform:"trim,lower"`
	Password       string     `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string     `json:"-"`
	ThumbNailURL   string     `json:"thumbnail_url,omitempty"`
	Online         bool       `json:"online"`
	ResetToken     string     `json:"-"`
	RoleID         uuid.UUID  `gorm:"type:uuid" json:"role_id"`
	Role           Role       `gorm:"foreignKey:RoleID" json:"role"`
	Books          []Book     `gorm:"foreignKey:UserID" json:"-"`
	Bookmarks      []Bookmark `gorm:"foreignKey:UserID" json:"-"`
	Following      []*User    `gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:FollowedID" json:"-"`
}

// IsAdmin reports whether the user's resolved role is the admin role.
func (u *User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(72, errors.New("password cant be more than 72 characters")))
	return passwordValidator.Validate(password)
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

// NormalizeUser trims and lowercases string fields per their conform tags.
func NormalizeUser(u *User) error {
	return validateWhiteSpaces(u)
}

func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

type UserResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RoleName     string `json:"role_name"`
	ThumbNailURL string `json:"thumbnail_url,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type EditProfileRequest struct {
	Name         string `json:"name"`
	ThumbNailURL string `json:"thumbnail_url"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Admin User"`
}
