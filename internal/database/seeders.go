package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"zedlink-careers/config"
	"zedlink-careers/internal/matching"
	"zedlink-careers/internal/models"
)

// SeedDatabase seeds the database with development data
func SeedDatabase(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Dev.SeedData {
		return nil
	}

	log.Println("Starting database seeding...")

	// Skip if an admin account already exists
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		log.Println("Seed data already present, skipping")
		return nil
	}

	admin := models.User{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		FullName: "Platform Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	employer := models.User{
		Email:    "employer@zedlink-careers.com",
		Password: "employer123",
		FullName: "Erin Employer",
		Role:     models.RoleEmployer,
		IsActive: true,
	}
	if err := db.Create(&employer).Error; err != nil {
		return fmt.Errorf("failed to seed employer user: %w", err)
	}

	company := models.Company{
		Name:         "ZedLink Technologies",
		Description:  "Demo employer used for local development.",
		Website:      "https://zedlink-careers.com",
		Location:     "Lusaka",
		ContactEmail: employer.Email,
		Verified:     true,
		CreatedBy:    employer.ID,
	}
	if err := db.Create(&company).Error; err != nil {
		return fmt.Errorf("failed to seed company: %w", err)
	}
	if err := db.Model(&employer).Update("company_id", company.ID).Error; err != nil {
		return fmt.Errorf("failed to link employer to company: %w", err)
	}

	applicant := models.User{
		Email:    "applicant@example.com",
		Password: "applicant123",
		FullName: "Alex Applicant",
		Role:     models.RoleApplicant,
		IsActive: true,
		Headline: "Full-stack developer",
	}
	if err := db.Create(&applicant).Error; err != nil {
		return fmt.Errorf("failed to seed applicant user: %w", err)
	}

	now := time.Now()
	job := models.JobPosting{
		CompanyID:   company.ID,
		Title:       "Senior React Developer",
		Description: "Build and maintain our customer-facing web applications.",
		Location:    "Lusaka",
		RemoteOK:    true,
		Category:    "engineering",
		Type:        models.JobTypeFullTime,
		Level:       models.ExperienceLevelSenior,
		Status:      models.JobStatusApproved,
		PublishedAt: &now,
	}
	job.SetRequirements([]string{"5+ years building web applications", "Strong React and JavaScript skills"})
	job.SetResponsibilities([]string{"Own frontend feature delivery", "Review code and mentor juniors"})
	job.SetBenefits([]string{"Remote-friendly", "Health cover"})
	if err := db.Create(&job).Error; err != nil {
		return fmt.Errorf("failed to seed job posting: %w", err)
	}

	application := models.Application{
		JobID:           job.ID,
		UserID:          applicant.ID,
		FullName:        applicant.FullName,
		Email:           applicant.Email,
		YearsExperience: 6,
		Status:          models.ApplicationStatusPending,
	}
	skills := []string{"React", "JavaScript", "Node"}
	application.SetSkills(skills)
	application.SetQualifications([]string{"BSc Computer Science"})

	score, err := matching.Score(
		matching.JobText{Title: job.Title, Description: job.Description},
		matching.Candidate{Skills: skills, YearsExperience: application.YearsExperience},
	)
	if err == nil {
		application.MatchScore = &score
	}

	if err := db.Create(&application).Error; err != nil {
		return fmt.Errorf("failed to seed application: %w", err)
	}

	partner := models.RecruitmentPartner{
		CompanyName:     "TalentBridge Recruiters",
		Email:           "hello@talentbridge.example.com",
		ContactPerson:   "Patricia Banda",
		Specialty:       "engineering",
		Description:     "Specialist technical recruitment agency.",
		YearsInBusiness: 8,
		TeamSize:        12,
		Rating:          4.6,
		Status:          models.PartnerStatusApproved,
		ApprovedAt:      &now,
	}
	if err := db.Create(&partner).Error; err != nil {
		return fmt.Errorf("failed to seed recruitment partner: %w", err)
	}

	log.Println("Seed data created successfully:")
	log.Printf("  Admin:     %s / %s", cfg.Admin.Email, cfg.Admin.Password)
	log.Printf("  Employer:  %s / employer123", employer.Email)
	log.Printf("  Applicant: %s / applicant123", applicant.Email)

	return nil
}
