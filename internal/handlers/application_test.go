package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zedlink-careers/config"
	"zedlink-careers/internal/email"
	"zedlink-careers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Company{},
		&models.JobPosting{},
		&models.Application{},
		&models.RecruitmentPartner{},
		&models.PartnerReview{},
	))

	return db
}

func newTestApplicationHandler(t *testing.T) (*ApplicationHandler, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{}
	emailService := email.NewEmailService(cfg, zap.NewNop())

	return NewApplicationHandler(db, zap.NewNop(), emailService), db
}

// identity injects auth context the way the JWT middleware would
func identity(userID uuid.UUID, role models.UserRole, companyID *uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		if companyID != nil {
			c.Set("company_id", *companyID)
		}
		c.Next()
	}
}

func createTestFixtures(t *testing.T, db *gorm.DB) (applicant models.User, employer models.User, job models.JobPosting) {
	t.Helper()

	employer = models.User{
		Email:    "employer@example.com",
		Password: "secret123",
		FullName: "Erin Employer",
		Role:     models.RoleEmployer,
		IsActive: true,
	}
	require.NoError(t, db.Create(&employer).Error)

	company := models.Company{
		Name:      "Test Co",
		CreatedBy: employer.ID,
	}
	require.NoError(t, db.Create(&company).Error)
	require.NoError(t, db.Model(&employer).Update("company_id", company.ID).Error)
	employer.CompanyID = &company.ID

	applicant = models.User{
		Email:    "applicant@example.com",
		Password: "secret123",
		FullName: "Alex Applicant",
		Role:     models.RoleApplicant,
		IsActive: true,
	}
	require.NoError(t, db.Create(&applicant).Error)

	now := time.Now()
	job = models.JobPosting{
		CompanyID:   company.ID,
		Title:       "Senior React Developer",
		Description: "Frontend role",
		Location:    "Remote",
		Type:        models.JobTypeFullTime,
		Level:       models.ExperienceLevelSenior,
		Status:      models.JobStatusApproved,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(&job).Error)

	return applicant, employer, job
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSubmitApplication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	applicant, _, job := createTestFixtures(t, db)

	router := gin.New()
	router.POST("/jobs/:id/apply", identity(applicant.ID, models.RoleApplicant, nil), handler.SubmitApplication)

	body := models.SubmitApplicationRequest{
		FullName:        "Alex Applicant",
		Email:           "applicant@example.com",
		YearsExperience: 6,
		Skills:          []string{"React", "JavaScript"},
	}

	recorder := performJSON(router, http.MethodPost, "/jobs/"+job.ID.String()+"/apply", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var stored models.Application
	require.NoError(t, db.Where("job_id = ? AND user_id = ?", job.ID, applicant.ID).First(&stored).Error)
	require.NotNil(t, stored.MatchScore)

	// Base 50 + 5 for "react" in title and skills + 10 + 15 for six years
	assert.Equal(t, 80, *stored.MatchScore)
	assert.Equal(t, models.ApplicationStatusPending, stored.Status)
}

func TestSubmitApplication_Duplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	applicant, _, job := createTestFixtures(t, db)

	router := gin.New()
	router.POST("/jobs/:id/apply", identity(applicant.ID, models.RoleApplicant, nil), handler.SubmitApplication)

	body := models.SubmitApplicationRequest{
		FullName: "Alex Applicant",
		Email:    "applicant@example.com",
	}

	first := performJSON(router, http.MethodPost, "/jobs/"+job.ID.String()+"/apply", body)
	require.Equal(t, http.StatusCreated, first.Code)

	second := performJSON(router, http.MethodPost, "/jobs/"+job.ID.String()+"/apply", body)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestSubmitApplication_NegativeExperience(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	applicant, _, job := createTestFixtures(t, db)

	router := gin.New()
	router.POST("/jobs/:id/apply", identity(applicant.ID, models.RoleApplicant, nil), handler.SubmitApplication)

	body := models.SubmitApplicationRequest{
		FullName:        "Alex Applicant",
		Email:           "applicant@example.com",
		YearsExperience: -2,
	}

	recorder := performJSON(router, http.MethodPost, "/jobs/"+job.ID.String()+"/apply", body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSubmitApplication_JobNotOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	applicant, _, job := createTestFixtures(t, db)

	require.NoError(t, db.Model(&job).Update("status", models.JobStatusClosed).Error)

	router := gin.New()
	router.POST("/jobs/:id/apply", identity(applicant.ID, models.RoleApplicant, nil), handler.SubmitApplication)

	body := models.SubmitApplicationRequest{
		FullName: "Alex Applicant",
		Email:    "applicant@example.com",
	}

	recorder := performJSON(router, http.MethodPost, "/jobs/"+job.ID.String()+"/apply", body)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestListJobApplications_RankedOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	_, employer, job := createTestFixtures(t, db)

	now := time.Now()
	scores := []*int{intPtr(60), nil, intPtr(95)}
	for i, score := range scores {
		user := models.User{
			Email:    uuid.New().String() + "@example.com",
			Password: "secret123",
			FullName: "Candidate",
			Role:     models.RoleApplicant,
			IsActive: true,
		}
		require.NoError(t, db.Create(&user).Error)

		application := models.Application{
			JobID:       job.ID,
			UserID:      user.ID,
			FullName:    user.FullName,
			Email:       user.Email,
			Status:      models.ApplicationStatusPending,
			MatchScore:  score,
			SubmittedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&application).Error)
	}

	router := gin.New()
	router.GET("/jobs/:id/applications", identity(employer.ID, models.RoleEmployer, employer.CompanyID), handler.ListJobApplications)

	recorder := performJSON(router, http.MethodGet, "/jobs/"+job.ID.String()+"/applications", nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response struct {
		Applications []models.ApplicationResponse `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Applications, 3)

	assert.Equal(t, 95, *response.Applications[0].MatchScore)
	assert.Equal(t, "excellent", response.Applications[0].ScoreTier)
	assert.Equal(t, 60, *response.Applications[1].MatchScore)
	assert.Equal(t, "good", response.Applications[1].ScoreTier)
	assert.Nil(t, response.Applications[2].MatchScore)
	assert.Equal(t, "unscored", response.Applications[2].ScoreTier)
}

func TestListJobApplications_MinScoreKeepsUnscored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	_, employer, job := createTestFixtures(t, db)

	for _, score := range []*int{intPtr(30), nil, intPtr(85)} {
		user := models.User{
			Email:    uuid.New().String() + "@example.com",
			Password: "secret123",
			FullName: "Candidate",
			Role:     models.RoleApplicant,
			IsActive: true,
		}
		require.NoError(t, db.Create(&user).Error)

		application := models.Application{
			JobID:      job.ID,
			UserID:     user.ID,
			FullName:   user.FullName,
			Email:      user.Email,
			Status:     models.ApplicationStatusPending,
			MatchScore: score,
		}
		require.NoError(t, db.Create(&application).Error)
	}

	router := gin.New()
	router.GET("/jobs/:id/applications", identity(employer.ID, models.RoleEmployer, employer.CompanyID), handler.ListJobApplications)

	recorder := performJSON(router, http.MethodGet, "/jobs/"+job.ID.String()+"/applications?min_score=50", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Applications []models.ApplicationResponse `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Applications, 2)
	assert.Equal(t, 85, *response.Applications[0].MatchScore)
	assert.Nil(t, response.Applications[1].MatchScore)
}

func TestListJobApplications_ForbiddenForOtherCompany(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	_, _, job := createTestFixtures(t, db)

	otherCompanyID := uuid.New()

	router := gin.New()
	router.GET("/jobs/:id/applications", identity(uuid.New(), models.RoleEmployer, &otherCompanyID), handler.ListJobApplications)

	recorder := performJSON(router, http.MethodGet, "/jobs/"+job.ID.String()+"/applications", nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestUpdateApplicationStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	applicant, employer, job := createTestFixtures(t, db)

	application := models.Application{
		JobID:    job.ID,
		UserID:   applicant.ID,
		FullName: applicant.FullName,
		Email:    applicant.Email,
		Status:   models.ApplicationStatusPending,
	}
	require.NoError(t, db.Create(&application).Error)

	router := gin.New()
	router.PATCH("/applications/:id/status", identity(employer.ID, models.RoleEmployer, employer.CompanyID), handler.UpdateApplicationStatus)

	// pending -> reviewing is legal
	recorder := performJSON(router, http.MethodPatch, "/applications/"+application.ID.String()+"/status",
		models.UpdateApplicationStatusRequest{Status: models.ApplicationStatusReviewing})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// reviewing -> hired skips shortlisting
	recorder = performJSON(router, http.MethodPatch, "/applications/"+application.ID.String()+"/status",
		models.UpdateApplicationStatusRequest{Status: models.ApplicationStatusHired})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var stored models.Application
	require.NoError(t, db.First(&stored, "id = ?", application.ID).Error)
	assert.Equal(t, models.ApplicationStatusReviewing, stored.Status)
}

func TestWithdrawApplication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestApplicationHandler(t)
	applicant, _, job := createTestFixtures(t, db)

	application := models.Application{
		JobID:    job.ID,
		UserID:   applicant.ID,
		FullName: applicant.FullName,
		Email:    applicant.Email,
		Status:   models.ApplicationStatusShortlisted,
	}
	require.NoError(t, db.Create(&application).Error)

	router := gin.New()
	router.DELETE("/applications/:id", identity(applicant.ID, models.RoleApplicant, nil), handler.WithdrawApplication)

	// Shortlisted applications can no longer be withdrawn
	recorder := performJSON(router, http.MethodDelete, "/applications/"+application.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	require.NoError(t, db.Model(&application).Update("status", models.ApplicationStatusPending).Error)

	recorder = performJSON(router, http.MethodDelete, "/applications/"+application.ID.String(), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var count int64
	db.Model(&models.Application{}).Where("id = ?", application.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func intPtr(v int) *int {
	return &v
}
