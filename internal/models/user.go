package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleApplicant UserRole = "applicant"
	RoleEmployer  UserRole = "employer"
	RoleAdmin     UserRole = "admin"
)

// User represents an account on the platform. Employers are linked to a
// Company once they register one; applicants and admins carry no company.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Password string    `json:"-" gorm:"not null" validate:"required,min=6"`
	FullName string    `json:"full_name" gorm:"not null" validate:"required"`
	Phone    string    `json:"phone" gorm:""`
	Location string    `json:"location" gorm:""`
	Role     UserRole  `json:"role" gorm:"not null;default:'applicant'" validate:"required,oneof=applicant employer admin"`
	IsActive bool      `json:"is_active" gorm:"not null;default:true"`

	// Employer linkage
	CompanyID *uuid.UUID `json:"company_id" gorm:"type:char(36);index"`

	// Applicant profile
	Headline    string `json:"headline" gorm:""`
	Bio         string `json:"bio" gorm:"type:text"`
	ResumeURL   string `json:"resume_url" gorm:""`
	LinkedInURL string `json:"linkedin_url" gorm:""`

	// Timestamps
	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	LastLoginAt *time.Time `json:"last_login_at" gorm:""`

	// Relationships
	Company      *Company      `json:"company,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:UserID"`
}

// UserResponse represents the user data returned in API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	Location    string     `json:"location"`
	Role        UserRole   `json:"role"`
	IsActive    bool       `json:"is_active"`
	CompanyID   *uuid.UUID `json:"company_id"`
	Headline    string     `json:"headline"`
	Bio         string     `json:"bio"`
	ResumeURL   string     `json:"resume_url"`
	LinkedInURL string     `json:"linkedin_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	Headline    *string `json:"headline"`
	Bio         *string `json:"bio"`
	ResumeURL   *string `json:"resume_url"`
	LinkedInURL *string `json:"linkedin_url"`
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return u.HashPassword()
}

// HashPassword hashes the user's password
func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}

	// Already hashed passwords pass through untouched
	if _, err := bcrypt.Cost([]byte(u.Password)); err == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword checks if the provided password matches the user's password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ToResponse converts a User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Location:    u.Location,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CompanyID:   u.CompanyID,
		Headline:    u.Headline,
		Bio:         u.Bio,
		ResumeURL:   u.ResumeURL,
		LinkedInURL: u.LinkedInURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// IsAdmin checks if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsEmployer checks if the user has employer role
func (u *User) IsEmployer() bool {
	return u.Role == RoleEmployer
}

// IsApplicant checks if the user has applicant role
func (u *User) IsApplicant() bool {
	return u.Role == RoleApplicant
}

// HasCompany checks if the user is linked to a company
func (u *User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID != uuid.Nil
}
