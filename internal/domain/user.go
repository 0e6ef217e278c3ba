package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleReviewer UserRole = "reviewer"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleEmployee, RoleReviewer, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is an employee account. CreditPoints is derived from the user's active
// ideas and is written only by the credit recalculation service.
type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	EmployeeNumber string     `json:"employee_number" db:"employee_number"`
	Name           string     `json:"name" db:"name"`
	Email          *string    `json:"email,omitempty" db:"email"`
	MobileNumber   *string    `json:"mobile_number,omitempty" db:"mobile_number"`
	Department     Department `json:"department" db:"department"`
	Designation    string     `json:"designation" db:"designation"`
	Role           UserRole   `json:"role" db:"role"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreditPoints   int        `json:"credit_points" db:"credit_points"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) HasRole(roles ...UserRole) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		EmployeeNumber: u.EmployeeNumber,
		Department:     u.Department,
		Designation:    u.Designation,
	}
}

type UserSummary struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	EmployeeNumber string     `json:"employee_number"`
	Department     Department `json:"department,omitempty"`
	Designation    string     `json:"designation,omitempty"`
}

type CreateUserInput struct {
	EmployeeNumber string     `json:"employee_number" validate:"required,max=32"`
	Name           string     `json:"name" validate:"required,min=2,max=120"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,email"`
	MobileNumber   *string    `json:"mobile_number,omitempty" validate:"omitempty,e164"`
	Department     Department `json:"department" validate:"required,department"`
	Designation    string     `json:"designation" validate:"required,max=120"`
	Role           UserRole   `json:"role,omitempty" validate:"omitempty,role"`
}

type UpdateUserInput struct {
	Name         *string     `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email        *string     `json:"email,omitempty" validate:"omitempty,email"`
	MobileNumber *string     `json:"mobile_number,omitempty" validate:"omitempty,e164"`
	Department   *Department `json:"department,omitempty" validate:"omitempty,department"`
	Designation  *string     `json:"designation,omitempty" validate:"omitempty,max=120"`
	Role         *UserRole   `json:"role,omitempty" validate:"omitempty,role"`
	IsActive     *bool       `json:"is_active,omitempty"`
}

type UserFilter struct {
	Department *Department
	Role       *UserRole
}

type SendOTPInput struct {
	EmployeeNumber string `json:"employee_number" validate:"required"`
}

type VerifyOTPInput struct {
	EmployeeNumber string `json:"employee_number" validate:"required"`
	OTP            string `json:"otp" validate:"required,len=6,numeric"`
}

type AuthToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}
