package model

import (
	"time"

	"github.com/google/uuid"
)

type (
	UserRole   string
	UserStatus string
)

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleManager   UserRole = "MANAGER"
	RoleMechanic  UserRole = "MECHANIC"
	RoleReception UserRole = "RECEPTION"
)

const (
	UserActive    UserStatus = "ACTIVE"
	UserInactive  UserStatus = "INACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	// bcrypt hash; never serialized to API responses.
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Password  string
	Role      UserRole
}

type UpdateUserParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Role      *UserRole
	Status    *UserStatus
}
