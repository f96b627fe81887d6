package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnerStatus string

const (
	PartnerStatusPending   PartnerStatus = "pending"
	PartnerStatusApproved  PartnerStatus = "approved"
	PartnerStatusRejected  PartnerStatus = "rejected"
	PartnerStatusSuspended PartnerStatus = "suspended"
)

// RecruitmentPartner represents an agency listed in the partner directory.
// Applications are reviewed by an admin before the partner goes live.
type RecruitmentPartner struct {
	ID uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`

	CompanyName string `json:"company_name" gorm:"not null" validate:"required"`
	Email       string `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Phone       string `json:"phone" gorm:""`
	Website     string `json:"website" gorm:""`
	Address     string `json:"address" gorm:""`
	LogoURL     string `json:"logo_url" gorm:""`

	ContactPerson      string `json:"contact_person" gorm:"not null" validate:"required"`
	RegistrationNumber string `json:"registration_number" gorm:""`

	Specialty   string `json:"specialty" gorm:"index"`
	Description string `json:"description" gorm:"type:text"`

	YearsInBusiness int `json:"years_in_business" gorm:"not null;default:0"`
	TeamSize        int `json:"team_size" gorm:"not null;default:0"`

	Rating     float64 `json:"rating" gorm:"not null;default:0"`
	IsFeatured bool    `json:"is_featured" gorm:"not null;default:false"`

	FeaturedUntil *time.Time `json:"featured_until" gorm:""`

	Status          PartnerStatus `json:"status" gorm:"not null;default:'pending';index"`
	RejectionReason string        `json:"rejection_reason,omitempty" gorm:"type:text"`
	ApprovedAt      *time.Time    `json:"approved_at" gorm:""`

	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Reviews []PartnerReview `json:"reviews,omitempty" gorm:"foreignKey:PartnerID"`
}

// PartnerReview represents a client review of a recruitment partner
type PartnerReview struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	PartnerID uuid.UUID `json:"partner_id" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`

	Rating  int    `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Comment string `json:"comment" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// RegisterPartnerRequest represents the request body for a partner application
type RegisterPartnerRequest struct {
	CompanyName        string `json:"company_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	Website            string `json:"website"`
	Address            string `json:"address"`
	LogoURL            string `json:"logo_url"`
	ContactPerson      string `json:"contact_person" binding:"required"`
	RegistrationNumber string `json:"registration_number"`
	Specialty          string `json:"specialty"`
	Description        string `json:"description"`
	YearsInBusiness    int    `json:"years_in_business" binding:"omitempty,min=0"`
	TeamSize           int    `json:"team_size" binding:"omitempty,min=0"`
}

// UpdatePartnerRequest represents the request body for editing a partner listing
type UpdatePartnerRequest struct {
	CompanyName   *string `json:"company_name"`
	Phone         *string `json:"phone"`
	Website       *string `json:"website"`
	Address       *string `json:"address"`
	LogoURL       *string `json:"logo_url"`
	ContactPerson *string `json:"contact_person"`
	Specialty     *string `json:"specialty"`
	Description   *string `json:"description"`
}

// ReviewPartnerRequest represents the request body for reviewing a partner
type ReviewPartnerRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// BeforeCreate is a GORM hook that runs before creating a partner
func (p *RecruitmentPartner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a review
func (r *PartnerReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsApproved checks if the partner is publicly listed
func (p *RecruitmentPartner) IsApproved() bool {
	return p.Status == PartnerStatusApproved
}

// IsCurrentlyFeatured checks featured placement, honouring the expiry date
func (p *RecruitmentPartner) IsCurrentlyFeatured() bool {
	if !p.IsFeatured {
		return false
	}
	if p.FeaturedUntil == nil {
		return true
	}
	return time.Now().Before(*p.FeaturedUntil)
}
