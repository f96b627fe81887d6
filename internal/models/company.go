package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company represents an employer's organisation. Job postings belong to a
// company, not to the individual employer account that created them.
type Company struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	Name        string    `json:"name" gorm:"not null" validate:"required"`
	Description string    `json:"description" gorm:"type:text"`
	LogoURL     string    `json:"logo_url" gorm:""`
	Website     string    `json:"website" gorm:""`
	Location    string    `json:"location" gorm:""`

	ContactEmail string `json:"contact_email" gorm:""`
	Verified     bool   `json:"verified" gorm:"not null;default:false"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:char(36);not null;index"`

	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Creator User         `json:"creator,omitempty" gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Jobs    []JobPosting `json:"jobs,omitempty" gorm:"foreignKey:CompanyID"`
	Members []User       `json:"members,omitempty" gorm:"foreignKey:CompanyID"`
}

// CreateCompanyRequest represents the request body for registering a company
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	LogoURL      string `json:"logo_url"`
	Website      string `json:"website"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// BeforeCreate is a GORM hook that runs before creating a company
func (co *Company) BeforeCreate(tx *gorm.DB) error {
	if co.ID == uuid.Nil {
		co.ID = uuid.New()
	}
	return nil
}
