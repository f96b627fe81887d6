package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"zedlink-careers/internal/database"
	"zedlink-careers/internal/email"
	"zedlink-careers/internal/matching"
	"zedlink-careers/internal/middleware"
	"zedlink-careers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	db     *gorm.DB
	logger *zap.Logger
	email  *email.EmailService
}

func NewApplicationHandler(db *gorm.DB, logger *zap.Logger, emailService *email.EmailService) *ApplicationHandler {
	return &ApplicationHandler{
		db:     db,
		logger: logger,
		email:  emailService,
	}
}

// SubmitApplication handles applying to a job
// @Summary Apply to a job
// @Description Submit an application. The match score is computed immediately; a scoring failure never blocks the submission.
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body models.SubmitApplicationRequest true "Application data"
// @Success 201 {object} models.ApplicationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/jobs/{id}/apply [post]
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req models.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if req.YearsExperience < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "years_experience must not be negative",
			"code":  "INVALID_EXPERIENCE",
		})
		return
	}

	var job models.JobPosting
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if !job.CanApply() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "This job is not accepting applications",
			"code":  "JOB_NOT_OPEN",
		})
		return
	}

	// One application per candidate per job
	var existing models.Application
	if err := h.db.Where("job_id = ? AND user_id = ?", jobID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "You have already applied to this job",
			"code":  "ALREADY_APPLIED",
		})
		return
	}

	application := models.Application{
		JobID:           jobID,
		UserID:          userID,
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		YearsExperience: req.YearsExperience,
		CoverLetter:     req.CoverLetter,
		ResumeURL:       req.ResumeURL,
		LinkedInURL:     req.LinkedInURL,
		PortfolioURL:    req.PortfolioURL,
		Status:          models.ApplicationStatusPending,
	}
	application.SetSkills(req.Skills)
	application.SetQualifications(req.Qualifications)

	// Score at submission time. Failure leaves the score NULL so
	// reviewers can still see the application.
	score, scoreErr := matching.Score(
		matching.JobText{Title: job.Title, Description: job.Description},
		matching.Candidate{Skills: req.Skills, YearsExperience: req.YearsExperience},
	)
	if scoreErr != nil {
		h.logger.Warn("Failed to score application",
			zap.Error(scoreErr),
			zap.String("job_id", jobID.String()),
			zap.String("user_id", userID.String()))
	} else {
		application.MatchScore = &score
	}

	if err := h.db.Create(&application).Error; err != nil {
		// The unique index backs up the duplicate check above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "You have already applied to this job",
				"code":  "ALREADY_APPLIED",
			})
			return
		}
		h.logger.Error("Failed to create application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	h.logger.Info("Application submitted",
		zap.String("application_id", application.ID.String()),
		zap.String("job_id", jobID.String()),
		zap.String("user_id", userID.String()))

	response := application.ToResponse()
	response.ScoreTier = string(matching.Tier(application.MatchScore))

	c.JSON(http.StatusCreated, gin.H{"application": response})
}

// ListMyApplications handles the applicant's own application listing
// @Summary List my applications
// @Description Get the authenticated applicant's submissions
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/applications/mine [get]
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.Application{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var applications []models.Application
	if err := query.Preload("Job").Preload("Job.Company").
		Scopes(database.Paginate(page, limit)).
		Order("submitted_at DESC").
		Find(&applications).Error; err != nil {
		h.logger.Error("Failed to fetch applications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	responses := make([]models.ApplicationResponse, len(applications))
	for i, application := range applications {
		responses[i] = application.ToResponse()
		responses[i].ScoreTier = string(matching.Tier(application.MatchScore))
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": responses,
		"pagination":   database.CalculatePagination(page, limit, total),
	})
}

// GetApplication handles fetching a single application
// @Summary Get application
// @Description Get an application. Visible to its owner, the hiring company and admins.
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var application models.Application
	if err := h.db.Preload("Job").Preload("Job.Company").First(&application, "id = ?", applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if !h.canViewApplication(c, &application) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot view this application", "code": "ACCESS_DENIED"})
		return
	}

	response := application.ToResponse()
	response.ScoreTier = string(matching.Tier(application.MatchScore))

	c.JSON(http.StatusOK, gin.H{"application": response})
}

// WithdrawApplication handles an applicant withdrawing a submission
// @Summary Withdraw application
// @Description Withdraw an application while it is still pending or under review
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/applications/{id} [delete]
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var application models.Application
	if err := h.db.First(&application, "id = ?", applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if application.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot withdraw this application", "code": "NOT_OWNER"})
		return
	}

	if !application.CanWithdraw() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Applications can only be withdrawn while pending or under review",
			"code":  "CANNOT_WITHDRAW",
		})
		return
	}

	if err := h.db.Delete(&application).Error; err != nil {
		h.logger.Error("Failed to withdraw application", zap.Error(err), zap.String("application_id", applicationID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw application"})
		return
	}

	h.logger.Info("Application withdrawn",
		zap.String("application_id", applicationID.String()),
		zap.String("user_id", userID.String()))

	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}

// ListJobApplications handles the ranked candidate listing for a job
// @Summary List ranked candidates
// @Description Get a job's applications ranked by match score, best first. Unscored applications sort last but are never dropped by min_score.
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Param min_score query int false "Drop scored applications below this value"
// @Param limit query int false "Maximum results (default 50)"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id}/applications [get]
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.JobPosting
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if !h.canManageJob(c, &job) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not manage this job posting", "code": "NOT_OWNER"})
		return
	}

	query := h.db.Model(&models.Application{}).Where("job_id = ?", jobID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		h.logger.Error("Failed to fetch applications", zap.Error(err), zap.String("job_id", jobID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	opts := matching.RankOptions{}
	if raw := c.Query("min_score"); raw != "" {
		minScore, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_score must be an integer"})
			return
		}
		opts.MinScore = &minScore
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		opts.Limit = limit
	}

	ranked := matching.Rank(applications, opts)

	responses := make([]models.ApplicationResponse, len(ranked))
	for i, application := range ranked {
		responses[i] = application.ToResponse()
		responses[i].ScoreTier = string(matching.Tier(application.MatchScore))
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": responses,
		"total":        len(applications),
	})
}

// UpdateApplicationStatus handles moving an application through the review pipeline
// @Summary Update application status
// @Description Change an application's status. Transitions follow the review pipeline; hired and rejected are final.
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body models.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} models.ApplicationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req models.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	var application models.Application
	if err := h.db.Preload("Job").Preload("Job.Company").First(&application, "id = ?", applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if !h.canManageJob(c, &application.Job) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not manage this job posting", "code": "NOT_OWNER"})
		return
	}

	if !application.CanTransitionTo(req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cannot move application from " + string(application.Status) + " to " + string(req.Status),
			"code":  "INVALID_STATUS_TRANSITION",
		})
		return
	}

	if err := h.db.Model(&application).Update("status", req.Status).Error; err != nil {
		h.logger.Error("Failed to update application status", zap.Error(err), zap.String("application_id", applicationID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	application.Status = req.Status

	// Status emails are best-effort
	if err := h.email.SendApplicationStatusEmail(&application, &application.Job); err != nil {
		h.logger.Warn("Failed to send status email", zap.Error(err), zap.String("application_id", applicationID.String()))
	}

	h.logger.Info("Application status updated",
		zap.String("application_id", applicationID.String()),
		zap.String("status", string(req.Status)))

	response := application.ToResponse()
	response.ScoreTier = string(matching.Tier(application.MatchScore))

	c.JSON(http.StatusOK, gin.H{"application": response})
}

// canViewApplication reports whether the caller may read an application
func (h *ApplicationHandler) canViewApplication(c *gin.Context, application *models.Application) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	if userID, exists := middleware.GetCurrentUserID(c); exists && userID == application.UserID {
		return true
	}
	companyID, hasCompany := middleware.GetCurrentCompanyID(c)
	return hasCompany && companyID == application.Job.CompanyID
}

// canManageJob reports whether the caller owns the posting's company or is an admin
func (h *ApplicationHandler) canManageJob(c *gin.Context, job *models.JobPosting) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	companyID, hasCompany := middleware.GetCurrentCompanyID(c)
	return hasCompany && companyID == job.CompanyID
}
