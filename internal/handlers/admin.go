package handlers

import (
	"net/http"
	"strconv"
	"time"

	"zedlink-careers/internal/database"
	"zedlink-careers/internal/email"
	"zedlink-careers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db     *gorm.DB
	logger *zap.Logger
	email  *email.EmailService
}

func NewAdminHandler(db *gorm.DB, logger *zap.Logger, emailService *email.EmailService) *AdminHandler {
	return &AdminHandler{
		db:     db,
		logger: logger,
		email:  emailService,
	}
}

// RejectRequest carries the reason for a moderation rejection
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FeaturePartnerRequest carries the featured placement window
type FeaturePartnerRequest struct {
	Featured bool       `json:"featured"`
	Until    *time.Time `json:"until"`
}

// ListPendingJobs handles the moderation queue listing
// @Summary List pending jobs
// @Description Get job postings awaiting review
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/jobs/pending [get]
func (h *AdminHandler) ListPendingJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.JobPosting{}).Where("status = ?", models.JobStatusPending)

	var total int64
	query.Count(&total)

	var jobs []models.JobPosting
	if err := query.Preload("Company").
		Scopes(database.Paginate(page, limit)).
		Order("created_at ASC").
		Find(&jobs).Error; err != nil {
		h.logger.Error("Failed to fetch pending jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending jobs"})
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

// ApproveJob handles approving a pending job posting
// @Summary Approve job
// @Description Approve a pending posting and publish it to the board
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.JobResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/jobs/{id}/approve [post]
func (h *AdminHandler) ApproveJob(c *gin.Context) {
	job, ok := h.loadPendingJob(c)
	if !ok {
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.JobStatusApproved,
		"published_at":     now,
		"rejection_reason": "",
	}
	if err := h.db.Model(job).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to approve job", zap.Error(err), zap.String("job_id", job.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve job"})
		return
	}
	job.Status = models.JobStatusApproved
	job.PublishedAt = &now

	h.notifyJobDecision(job, true)

	h.logger.Info("Job approved", zap.String("job_id", job.ID.String()))

	c.JSON(http.StatusOK, gin.H{"job": job.ToResponse()})
}

// RejectJob handles rejecting a pending job posting
// @Summary Reject job
// @Description Reject a pending posting with a reason for the employer
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body RejectRequest true "Rejection reason"
// @Success 200 {object} models.JobResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/jobs/{id}/reject [post]
func (h *AdminHandler) RejectJob(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required", "details": err.Error()})
		return
	}

	job, ok := h.loadPendingJob(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"status":           models.JobStatusRejected,
		"rejection_reason": req.Reason,
	}
	if err := h.db.Model(job).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to reject job", zap.Error(err), zap.String("job_id", job.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject job"})
		return
	}
	job.Status = models.JobStatusRejected
	job.RejectionReason = req.Reason

	h.notifyJobDecision(job, false)

	h.logger.Info("Job rejected", zap.String("job_id", job.ID.String()))

	c.JSON(http.StatusOK, gin.H{"job": job.ToResponse()})
}

// ListPendingPartners handles the partner moderation queue
// @Summary List pending partners
// @Description Get partner applications awaiting review
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/partners/pending [get]
func (h *AdminHandler) ListPendingPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.RecruitmentPartner{}).Where("status = ?", models.PartnerStatusPending)

	var total int64
	query.Count(&total)

	var partners []models.RecruitmentPartner
	if err := query.Scopes(database.Paginate(page, limit)).
		Order("created_at ASC").
		Find(&partners).Error; err != nil {
		h.logger.Error("Failed to fetch pending partners", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending partners"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partners":   partners,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// ApprovePartner handles approving a partner application
// @Summary Approve partner
// @Description Approve a pending partner and list it in the directory
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} models.RecruitmentPartner
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/partners/{id}/approve [post]
func (h *AdminHandler) ApprovePartner(c *gin.Context) {
	// Suspended partners are reinstated through approval
	partner, ok := h.loadPartnerInStatus(c, models.PartnerStatusPending, models.PartnerStatusSuspended)
	if !ok {
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.PartnerStatusApproved,
		"approved_at":      now,
		"rejection_reason": "",
	}
	if err := h.db.Model(partner).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to approve partner", zap.Error(err), zap.String("partner_id", partner.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve partner"})
		return
	}
	partner.Status = models.PartnerStatusApproved
	partner.ApprovedAt = &now

	if err := h.email.SendPartnerDecisionEmail(partner, true); err != nil {
		h.logger.Warn("Failed to send partner decision email", zap.Error(err))
	}

	h.logger.Info("Partner approved", zap.String("partner_id", partner.ID.String()))

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// RejectPartner handles rejecting a partner application
// @Summary Reject partner
// @Description Reject a pending partner application with a reason
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param request body RejectRequest true "Rejection reason"
// @Success 200 {object} models.RecruitmentPartner
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/partners/{id}/reject [post]
func (h *AdminHandler) RejectPartner(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required", "details": err.Error()})
		return
	}

	partner, ok := h.loadPartnerInStatus(c, models.PartnerStatusPending)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"status":           models.PartnerStatusRejected,
		"rejection_reason": req.Reason,
	}
	if err := h.db.Model(partner).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to reject partner", zap.Error(err), zap.String("partner_id", partner.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject partner"})
		return
	}
	partner.Status = models.PartnerStatusRejected
	partner.RejectionReason = req.Reason

	if err := h.email.SendPartnerDecisionEmail(partner, false); err != nil {
		h.logger.Warn("Failed to send partner decision email", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// SuspendPartner handles taking a live partner off the directory
// @Summary Suspend partner
// @Description Suspend an approved partner. The listing disappears from the directory until the partner is approved again.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} models.RecruitmentPartner
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/partners/{id}/suspend [post]
func (h *AdminHandler) SuspendPartner(c *gin.Context) {
	partner, ok := h.loadPartnerInStatus(c, models.PartnerStatusApproved)
	if !ok {
		return
	}

	if err := h.db.Model(partner).Update("status", models.PartnerStatusSuspended).Error; err != nil {
		h.logger.Error("Failed to suspend partner", zap.Error(err), zap.String("partner_id", partner.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suspend partner"})
		return
	}
	partner.Status = models.PartnerStatusSuspended

	h.logger.Info("Partner suspended", zap.String("partner_id", partner.ID.String()))

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// UpdatePartner handles editing a partner listing
// @Summary Update partner
// @Description Update a partner's listing details, including its logo
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param request body models.UpdatePartnerRequest true "Partner fields"
// @Success 200 {object} models.RecruitmentPartner
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/partners/{id} [patch]
func (h *AdminHandler) UpdatePartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	var req models.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	var partner models.RecruitmentPartner
	if err := h.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}
	if req.Specialty != nil {
		updates["specialty"] = *req.Specialty
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := h.db.Model(&partner).Updates(updates).Error; err != nil {
			h.logger.Error("Failed to update partner", zap.Error(err), zap.String("partner_id", partnerID.String()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update partner"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// FeaturePartner handles featured placement of a partner
// @Summary Feature partner
// @Description Mark an approved partner as featured, optionally until a date
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param request body FeaturePartnerRequest true "Placement window"
// @Success 200 {object} models.RecruitmentPartner
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/partners/{id}/feature [post]
func (h *AdminHandler) FeaturePartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	var req FeaturePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	var partner models.RecruitmentPartner
	if err := h.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	updates := map[string]interface{}{
		"is_featured":    req.Featured,
		"featured_until": req.Until,
	}
	if err := h.db.Model(&partner).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to update featured placement", zap.Error(err), zap.String("partner_id", partnerID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update partner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// VerifyCompany handles marking a company as verified
// @Summary Verify company
// @Description Mark a company as verified so its postings carry a badge
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} models.Company
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/companies/{id}/verify [post]
func (h *AdminHandler) VerifyCompany(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	var company models.Company
	if err := h.db.First(&company, "id = ?", companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if err := h.db.Model(&company).Update("verified", true).Error; err != nil {
		h.logger.Error("Failed to verify company", zap.Error(err), zap.String("company_id", companyID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify company"})
		return
	}

	h.logger.Info("Company verified", zap.String("company_id", companyID.String()))

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// ListUsers handles the admin user listing
// @Summary List users
// @Description Get all user accounts with filtering
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param role query string false "Filter by role"
// @Param search query string false "Search by email or name"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("email LIKE ? OR full_name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Scopes(database.Paginate(page, limit)).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		h.logger.Error("Failed to fetch users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      responses,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// SetUserActive handles activating or deactivating an account
// @Summary Set user active state
// @Description Activate or deactivate a user account
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body map[string]bool true "Active flag"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/active [patch]
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.db.Model(&user).Update("is_active", *req.Active).Error; err != nil {
		h.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// GetStatistics handles the admin dashboard counters
// @Summary Platform statistics
// @Description Get platform-wide counts for the admin dashboard
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/statistics [get]
func (h *AdminHandler) GetStatistics(c *gin.Context) {
	var stats struct {
		Users              int64 `json:"users"`
		NewUsers30Days     int64 `json:"new_users_30_days"`
		Companies          int64 `json:"companies"`
		Jobs               int64 `json:"jobs"`
		PendingJobs        int64 `json:"pending_jobs"`
		LiveJobs           int64 `json:"live_jobs"`
		Applications       int64 `json:"applications"`
		RecentApplications int64 `json:"recent_applications"`
		Hired              int64 `json:"hired"`
		Partners           int64 `json:"partners"`
	}

	now := time.Now()
	h.db.Model(&models.User{}).Count(&stats.Users)
	h.db.Model(&models.User{}).Where("created_at > ?", now.AddDate(0, 0, -30)).Count(&stats.NewUsers30Days)
	h.db.Model(&models.Company{}).Count(&stats.Companies)
	h.db.Model(&models.JobPosting{}).Count(&stats.Jobs)
	h.db.Model(&models.JobPosting{}).Where("status = ?", models.JobStatusPending).Count(&stats.PendingJobs)
	h.db.Model(&models.JobPosting{}).Where("status = ?", models.JobStatusApproved).Count(&stats.LiveJobs)
	h.db.Model(&models.Application{}).Count(&stats.Applications)
	h.db.Model(&models.Application{}).Where("submitted_at > ?", now.AddDate(0, 0, -7)).Count(&stats.RecentApplications)
	h.db.Model(&models.Application{}).Where("status = ?", models.ApplicationStatusHired).Count(&stats.Hired)
	h.db.Model(&models.RecruitmentPartner{}).Where("status = ?", models.PartnerStatusApproved).Count(&stats.Partners)

	c.JSON(http.StatusOK, gin.H{
		"statistics": stats,
		"database":   database.GetStats(),
	})
}

// loadPendingJob fetches the job from the path and ensures it is pending
func (h *AdminHandler) loadPendingJob(c *gin.Context) (*models.JobPosting, bool) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return nil, false
	}

	var job models.JobPosting
	if err := h.db.Preload("Company").First(&job, "id = ?", jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return nil, false
	}

	if job.Status != models.JobStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Only pending postings can be moderated",
			"code":  "NOT_PENDING",
		})
		return nil, false
	}

	return &job, true
}

// loadPartnerInStatus fetches the partner from the path and ensures its
// status allows the requested decision
func (h *AdminHandler) loadPartnerInStatus(c *gin.Context, allowed ...models.PartnerStatus) (*models.RecruitmentPartner, bool) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return nil, false
	}

	var partner models.RecruitmentPartner
	if err := h.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return nil, false
	}

	for _, status := range allowed {
		if partner.Status == status {
			return &partner, true
		}
	}

	c.JSON(http.StatusConflict, gin.H{
		"error": "Partner status does not allow this action",
		"code":  "INVALID_PARTNER_STATUS",
	})
	return nil, false
}

// notifyJobDecision emails the posting's owner about a moderation decision
func (h *AdminHandler) notifyJobDecision(job *models.JobPosting, approved bool) {
	var owner models.User
	if err := h.db.First(&owner, "id = ?", job.Company.CreatedBy).Error; err != nil {
		h.logger.Warn("Failed to load posting owner for notification",
			zap.Error(err), zap.String("job_id", job.ID.String()))
		return
	}

	if err := h.email.SendJobDecisionEmail(job, &owner, approved); err != nil {
		h.logger.Warn("Failed to send job decision email",
			zap.Error(err), zap.String("job_id", job.ID.String()))
	}
}
