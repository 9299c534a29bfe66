package repository

import (
	"errors"
	"fmt"

	"github.com/teamlog/teamlog-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByIDs(ids []uint) (map[uint]*domain.User, error)
	List(filter domain.UserFilter, skip, limit int) ([]*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) findOne(query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(id uint) (*domain.User, error) {
	return r.findOne("id = ?", id)
}

func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	return r.findOne("username = ?", username)
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	return r.findOne("email = ?", email)
}

// FindByIDs batch-loads users keyed by id; unknown ids are simply missing from the map
func (r *userRepository) FindByIDs(ids []uint) (map[uint]*domain.User, error) {
	out := make(map[uint]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*domain.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) List(filter domain.UserFilter, skip, limit int) ([]*domain.User, error) {
	skip, limit = paginate(skip, limit)
	query := r.db.Model(&domain.User{})
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var users []*domain.User
	if err := query.Order("id ASC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
