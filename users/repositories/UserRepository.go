package repositories

import (
	"fmt"
	"strings"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(tx *gorm.DB, user *models.User) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserByLogin(login string) (*models.User, error)
	UsernameOrEmailTaken(username, email string) (bool, error)
	DeleteUser(tx *gorm.DB, id uuid.UUID) error
	GetTenantByUserID(userID uuid.UUID) (*models.Tenant, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateUser hashes the plain password held in user.Password before saving.
func (r *userRepository) CreateUser(tx *gorm.DB, user *models.User) (*models.User, error) {
	hashed, err := HashPassword(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := tx.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin accepts either the username or the email address.
func (r *userRepository) GetUserByLogin(login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	var user models.User
	err := r.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing users: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) DeleteUser(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *userRepository) GetTenantByUserID(userID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Where("user_id = ?", userID).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}
