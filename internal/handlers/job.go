package handlers

import (
	"net/http"
	"strconv"

	"zedlink-careers/internal/database"
	"zedlink-careers/internal/middleware"
	"zedlink-careers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewJobHandler(db *gorm.DB, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		db:     db,
		logger: logger,
	}
}

// ListJobs handles the public job board listing
// @Summary List jobs
// @Description Get approved job postings with filtering and pagination
// @Tags jobs
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param category query string false "Filter by category"
// @Param location query string false "Filter by location"
// @Param remote query bool false "Only remote-friendly jobs"
// @Param job_type query string false "Filter by job type"
// @Param experience_level query string false "Filter by experience level"
// @Param search query string false "Search in title or description"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.JobPosting{}).Where("status = ?", models.JobStatusApproved)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}
	if c.Query("remote") == "true" {
		query = query.Where("remote_ok = ?", true)
	}
	if jobType := c.Query("job_type"); jobType != "" {
		query = query.Where("type = ?", jobType)
	}
	if level := c.Query("experience_level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var jobs []models.JobPosting
	if err := query.Preload("Company").
		Scopes(database.Paginate(page, limit)).
		Order("published_at DESC").
		Find(&jobs).Error; err != nil {
		h.logger.Error("Failed to fetch jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	responses := make([]models.JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = job.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       responses,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// GetJob handles fetching a single job posting
// @Summary Get job
// @Description Get a job posting by ID. Unapproved postings are only visible to their owner or an admin.
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.JobResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.JobPosting
	if err := h.db.Preload("Company").First(&job, "id = ?", jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	// Unapproved postings stay hidden from the public
	if !job.IsApproved() && !h.canManageJob(c, &job) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job.ToResponse()})
}

// CreateJob handles posting a new job
// @Summary Create job
// @Description Post a new job. The posting starts pending until approved by an admin.
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateJobRequest true "Job data"
// @Success 201 {object} models.JobResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	companyID, hasCompany := middleware.GetCurrentCompanyID(c)
	if !hasCompany {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You must register a company before posting jobs",
			"code":  "NO_COMPANY",
		})
		return
	}

	var req models.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "salary_min must not exceed salary_max"})
		return
	}

	currency := req.SalaryCurrency
	if currency == "" {
		currency = "USD"
	}

	job := models.JobPosting{
		CompanyID:      companyID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		RemoteOK:       req.RemoteOK,
		Category:       req.Category,
		Type:           req.JobType,
		Level:          req.ExperienceLevel,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: currency,
		Status:         models.JobStatusPending,
	}
	job.SetRequirements(req.Requirements)
	job.SetResponsibilities(req.Responsibilities)
	job.SetBenefits(req.Benefits)

	if err := h.db.Create(&job).Error; err != nil {
		h.logger.Error("Failed to create job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	h.logger.Info("Job posting created",
		zap.String("job_id", job.ID.String()),
		zap.String("company_id", companyID.String()))

	c.JSON(http.StatusCreated, gin.H{"job": job.ToResponse()})
}

// UpdateJob handles editing a job posting
// @Summary Update job
// @Description Update a job posting. Closed postings cannot be edited. Editing a rejected posting resubmits it for review.
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body models.UpdateJobRequest true "Job fields"
// @Success 200 {object} models.JobResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [patch]
func (h *JobHandler) UpdateJob(c *gin.Context) {
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

	if job.IsClosed() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Closed postings cannot be edited",
			"code":  "JOB_CLOSED",
		})
		return
	}

	var req models.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	contentChanged := false

	if req.Title != nil {
		updates["title"] = *req.Title
		contentChanged = true
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		contentChanged = true
	}
	if req.Location != nil {
		updates["location"] = *req.Location
		contentChanged = true
	}
	if req.RemoteOK != nil {
		updates["remote_ok"] = *req.RemoteOK
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Requirements != nil {
		job.SetRequirements(req.Requirements)
		updates["requirements"] = job.Requirements
		contentChanged = true
	}
	if req.Responsibilities != nil {
		job.SetResponsibilities(req.Responsibilities)
		updates["responsibilities"] = job.Responsibilities
	}
	if req.Benefits != nil {
		job.SetBenefits(req.Benefits)
		updates["benefits"] = job.Benefits
	}
	if req.SalaryMin != nil {
		updates["salary_min"] = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		updates["salary_max"] = *req.SalaryMax
	}

	// Only closing is allowed through this endpoint; approval is an admin action
	if req.Status != nil {
		if *req.Status != models.JobStatusClosed {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only closing a posting is allowed here",
				"code":  "INVALID_STATUS_CHANGE",
			})
			return
		}
		updates["status"] = models.JobStatusClosed
	} else if job.Status == models.JobStatusRejected && contentChanged {
		// A rejected posting goes back into the review queue once edited
		updates["status"] = models.JobStatusPending
		updates["rejection_reason"] = ""
	}

	if len(updates) > 0 {
		if err := h.db.Model(&job).Updates(updates).Error; err != nil {
			h.logger.Error("Failed to update job", zap.Error(err), zap.String("job_id", job.ID.String()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"job": job.ToResponse()})
}

// CloseJob handles closing a job posting
// @Summary Close job
// @Description Close a job posting so it stops accepting applications
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.JobResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id}/close [post]
func (h *JobHandler) CloseJob(c *gin.Context) {
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

	if job.IsClosed() {
		c.JSON(http.StatusConflict, gin.H{"error": "Job is already closed", "code": "JOB_CLOSED"})
		return
	}

	if err := h.db.Model(&job).Update("status", models.JobStatusClosed).Error; err != nil {
		h.logger.Error("Failed to close job", zap.Error(err), zap.String("job_id", job.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close job"})
		return
	}

	h.logger.Info("Job posting closed", zap.String("job_id", job.ID.String()))

	c.JSON(http.StatusOK, gin.H{"job": job.ToResponse()})
}

// ListCompanyJobs handles the employer dashboard listing
// @Summary List my company's jobs
// @Description Get all job postings of the employer's company, any status
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/jobs/mine [get]
func (h *JobHandler) ListCompanyJobs(c *gin.Context) {
	companyID, hasCompany := middleware.GetCurrentCompanyID(c)
	if !hasCompany {
		c.JSON(http.StatusForbidden, gin.H{"error": "No company linked to this account", "code": "NO_COMPANY"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.JobPosting{}).Where("company_id = ?", companyID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var jobs []models.JobPosting
	if err := query.Preload("Applications").
		Scopes(database.Paginate(page, limit)).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		h.logger.Error("Failed to fetch company jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	responses := make([]models.JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = job.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       responses,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// canManageJob reports whether the caller owns the posting's company or is an admin
func (h *JobHandler) canManageJob(c *gin.Context, job *models.JobPosting) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	companyID, hasCompany := middleware.GetCurrentCompanyID(c)
	return hasCompany && companyID == job.CompanyID
}
