package repository

import "github.com/ordio-mrp/ordio-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
