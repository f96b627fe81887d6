package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// Application represents one candidate's submission for a job posting.
// The (job, applicant) pair is unique: a candidate applies to a posting
// at most once. MatchScore is nil when scoring failed or has not run.
type Application struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	JobID  uuid.UUID `json:"job_id" gorm:"type:char(36);not null;uniqueIndex:idx_applications_job_user"`
	UserID uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_applications_job_user"`

	FullName string `json:"full_name" gorm:"not null" validate:"required"`
	Email    string `json:"email" gorm:"not null" validate:"required,email"`
	Phone    string `json:"phone" gorm:""`

	YearsExperience int `json:"years_experience" gorm:"not null;default:0"`

	// Stored as JSON arrays
	Skills         string `json:"-" gorm:"type:text"`
	Qualifications string `json:"-" gorm:"type:text"`

	CoverLetter  string `json:"cover_letter" gorm:"type:text"`
	ResumeURL    string `json:"resume_url" gorm:""`
	LinkedInURL  string `json:"linkedin_url" gorm:""`
	PortfolioURL string `json:"portfolio_url" gorm:""`

	Status ApplicationStatus `json:"status" gorm:"not null;default:'pending';index"`

	// MatchScore is assigned at submission time and never blocks the
	// submission itself: a failed scoring run leaves it NULL.
	MatchScore *int `json:"match_score" gorm:""`

	SubmittedAt time.Time      `json:"submitted_at" gorm:"not null;index"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Job       JobPosting `json:"job,omitempty" gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Applicant User       `json:"applicant,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ApplicationResponse represents the application data returned in API responses
type ApplicationResponse struct {
	ID              uuid.UUID         `json:"id"`
	JobID           uuid.UUID         `json:"job_id"`
	UserID          uuid.UUID         `json:"user_id"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	YearsExperience int               `json:"years_experience"`
	Skills          []string          `json:"skills"`
	Qualifications  []string          `json:"qualifications"`
	CoverLetter     string            `json:"cover_letter"`
	ResumeURL       string            `json:"resume_url"`
	LinkedInURL     string            `json:"linkedin_url"`
	PortfolioURL    string            `json:"portfolio_url"`
	Status          ApplicationStatus `json:"status"`
	MatchScore      *int              `json:"match_score"`
	ScoreTier       string            `json:"score_tier"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Job             *JobResponse      `json:"job,omitempty"`
}

// SubmitApplicationRequest represents the request body for applying to a job
type SubmitApplicationRequest struct {
	FullName        string   `json:"full_name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone"`
	YearsExperience int      `json:"years_experience"`
	Skills          []string `json:"skills"`
	Qualifications  []string `json:"qualifications"`
	CoverLetter     string   `json:"cover_letter"`
	ResumeURL       string   `json:"resume_url"`
	LinkedInURL     string   `json:"linkedin_url"`
	PortfolioURL    string   `json:"portfolio_url"`
}

// UpdateApplicationStatusRequest represents the request body for a status change
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" binding:"required,oneof=pending reviewing shortlisted rejected hired"`
	Notes  string            `json:"notes"`
}

// BeforeCreate is a GORM hook that runs before creating an application
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}
	return nil
}

// applicationTransitions defines the legal review pipeline. Hired and
// rejected are terminal; rejected is reachable from every earlier stage.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:     {ApplicationStatusReviewing, ApplicationStatusRejected},
	ApplicationStatusReviewing:   {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusHired, ApplicationStatusRejected},
	ApplicationStatusRejected:    {},
	ApplicationStatusHired:       {},
}

// CanTransitionTo checks whether a status change is allowed
func (a *Application) CanTransitionTo(next ApplicationStatus) bool {
	allowed, exists := applicationTransitions[a.Status]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

// IsTerminal checks whether the application has reached a final status
func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationStatusHired || a.Status == ApplicationStatusRejected
}

// CanWithdraw checks whether the applicant may still withdraw
func (a *Application) CanWithdraw() bool {
	return a.Status == ApplicationStatusPending || a.Status == ApplicationStatusReviewing
}

// SetSkills stores the skill list as JSON
func (a *Application) SetSkills(items []string) {
	a.Skills = encodeStringList(items)
}

// SetQualifications stores the qualification list as JSON
func (a *Application) SetQualifications(items []string) {
	a.Qualifications = encodeStringList(items)
}

// GetSkills returns the decoded skill list
func (a *Application) GetSkills() []string {
	return decodeStringList(a.Skills)
}

// ToResponse converts an Application to ApplicationResponse
func (a *Application) ToResponse() ApplicationResponse {
	response := ApplicationResponse{
		ID:              a.ID,
		JobID:           a.JobID,
		UserID:          a.UserID,
		FullName:        a.FullName,
		Email:           a.Email,
		Phone:           a.Phone,
		YearsExperience: a.YearsExperience,
		Skills:          decodeStringList(a.Skills),
		Qualifications:  decodeStringList(a.Qualifications),
		CoverLetter:     a.CoverLetter,
		ResumeURL:       a.ResumeURL,
		LinkedInURL:     a.LinkedInURL,
		PortfolioURL:    a.PortfolioURL,
		Status:          a.Status,
		MatchScore:      a.MatchScore,
		SubmittedAt:     a.SubmittedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.Job.ID != uuid.Nil {
		job := a.Job.ToResponse()
		response.Job = &job
	}

	return response
}
