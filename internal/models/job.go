package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusApproved JobStatus = "approved"
	JobStatusRejected JobStatus = "rejected"
	JobStatusClosed   JobStatus = "closed"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

type ExperienceLevel string

const (
	ExperienceLevelEntry     ExperienceLevel = "entry"
	ExperienceLevelMid       ExperienceLevel = "mid"
	ExperienceLevelSenior    ExperienceLevel = "senior"
	ExperienceLevelExecutive ExperienceLevel = "executive"
)

// JobPosting represents one employer-authored opening. New postings start
// as pending and only become publicly visible once an admin approves them.
type JobPosting struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	CompanyID uuid.UUID `json:"company_id" gorm:"type:char(36);not null;index"`

	Title       string `json:"title" gorm:"not null" validate:"required"`
	Description string `json:"description" gorm:"type:text;not null" validate:"required"`
	Location    string `json:"location" gorm:"not null" validate:"required"`
	RemoteOK    bool   `json:"remote_ok" gorm:"not null;default:false"`
	Category    string `json:"category" gorm:"index"`

	// Stored as JSON arrays
	Requirements     string `json:"-" gorm:"type:text"`
	Responsibilities string `json:"-" gorm:"type:text"`
	Benefits         string `json:"-" gorm:"type:text"`

	Type  JobType         `json:"job_type" gorm:"not null" validate:"required"`
	Level ExperienceLevel `json:"experience_level" gorm:"not null" validate:"required"`

	SalaryMin      *int   `json:"salary_min" gorm:""`
	SalaryMax      *int   `json:"salary_max" gorm:""`
	SalaryCurrency string `json:"salary_currency" gorm:"default:'USD'"`

	Status          JobStatus `json:"status" gorm:"not null;default:'pending';index"`
	RejectionReason string    `json:"rejection_reason,omitempty" gorm:"type:text"`

	PublishedAt *time.Time `json:"published_at" gorm:""`

	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Company      Company       `json:"company,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:JobID"`
}

// JobResponse represents the job posting data returned in API responses
type JobResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Location         string          `json:"location"`
	RemoteOK         bool            `json:"remote_ok"`
	Category         string          `json:"category"`
	Requirements     []string        `json:"requirements"`
	Responsibilities []string        `json:"responsibilities"`
	Benefits         []string        `json:"benefits"`
	Type             JobType         `json:"job_type"`
	Level            ExperienceLevel `json:"experience_level"`
	SalaryMin        *int            `json:"salary_min"`
	SalaryMax        *int            `json:"salary_max"`
	SalaryCurrency   string          `json:"salary_currency"`
	Status           JobStatus       `json:"status"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	PublishedAt      *time.Time      `json:"published_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Company          *Company        `json:"company,omitempty"`
	ApplicationCount int             `json:"application_count"`
}

// CreateJobRequest represents the request body for posting a job
type CreateJobRequest struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	Location         string          `json:"location" binding:"required"`
	RemoteOK         bool            `json:"remote_ok"`
	Category         string          `json:"category"`
	Requirements     []string        `json:"requirements"`
	Responsibilities []string        `json:"responsibilities"`
	Benefits         []string        `json:"benefits"`
	JobType          JobType         `json:"job_type" binding:"required,oneof=full-time part-time contract internship"`
	ExperienceLevel  ExperienceLevel `json:"experience_level" binding:"required,oneof=entry mid senior executive"`
	SalaryMin        *int            `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax        *int            `json:"salary_max" binding:"omitempty,min=0"`
	SalaryCurrency   string          `json:"salary_currency"`
}

// UpdateJobRequest represents the request body for updating a job posting
type UpdateJobRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	RemoteOK         *bool      `json:"remote_ok"`
	Category         *string    `json:"category"`
	Requirements     []string   `json:"requirements"`
	Responsibilities []string   `json:"responsibilities"`
	Benefits         []string   `json:"benefits"`
	Status           *JobStatus `json:"status" binding:"omitempty,oneof=pending approved rejected closed"`
	SalaryMin        *int       `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax        *int       `json:"salary_max" binding:"omitempty,min=0"`
}

// BeforeCreate is a GORM hook that runs before creating a job posting
func (j *JobPosting) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// ToResponse converts a JobPosting to JobResponse
func (j *JobPosting) ToResponse() JobResponse {
	response := JobResponse{
		ID:               j.ID,
		CompanyID:        j.CompanyID,
		Title:            j.Title,
		Description:      j.Description,
		Location:         j.Location,
		RemoteOK:         j.RemoteOK,
		Category:         j.Category,
		Requirements:     decodeStringList(j.Requirements),
		Responsibilities: decodeStringList(j.Responsibilities),
		Benefits:         decodeStringList(j.Benefits),
		Type:             j.Type,
		Level:            j.Level,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		SalaryCurrency:   j.SalaryCurrency,
		Status:           j.Status,
		RejectionReason:  j.RejectionReason,
		PublishedAt:      j.PublishedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
		ApplicationCount: len(j.Applications),
	}

	if j.Company.ID != uuid.Nil {
		company := j.Company
		response.Company = &company
	}

	return response
}

// SetRequirements stores the requirement list as JSON
func (j *JobPosting) SetRequirements(items []string) {
	j.Requirements = encodeStringList(items)
}

// SetResponsibilities stores the responsibility list as JSON
func (j *JobPosting) SetResponsibilities(items []string) {
	j.Responsibilities = encodeStringList(items)
}

// SetBenefits stores the benefit list as JSON
func (j *JobPosting) SetBenefits(items []string) {
	j.Benefits = encodeStringList(items)
}

// IsApproved checks if the posting is publicly visible
func (j *JobPosting) IsApproved() bool {
	return j.Status == JobStatusApproved
}

// IsClosed checks if the posting is closed
func (j *JobPosting) IsClosed() bool {
	return j.Status == JobStatusClosed
}

// CanApply checks whether applications are accepted for this posting
func (j *JobPosting) CanApply() bool {
	return j.Status == JobStatusApproved
}

// FormatSalary renders the salary range for display
func (j *JobPosting) FormatSalary() string {
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return ""
	}

	if j.SalaryMin != nil && j.SalaryMax != nil {
		return fmt.Sprintf("%d - %d %s", *j.SalaryMin, *j.SalaryMax, j.SalaryCurrency)
	}

	if j.SalaryMin != nil {
		return fmt.Sprintf("from %d %s", *j.SalaryMin, j.SalaryCurrency)
	}

	return fmt.Sprintf("up to %d %s", *j.SalaryMax, j.SalaryCurrency)
}

// encodeStringList marshals a string slice to JSON, empty slices included
// so the column never holds SQL NULL for a submitted-but-empty list.
func encodeStringList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeStringList unmarshals a JSON array column, tolerating empty columns
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}
