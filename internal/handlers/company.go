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

type CompanyHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCompanyHandler(db *gorm.DB, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		db:     db,
		logger: logger,
	}
}

// RegisterCompany handles an employer registering their company
// @Summary Register company
// @Description Create a company and link it to the employer account. One company per employer.
// @Tags companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateCompanyRequest true "Company data"
// @Success 201 {object} models.Company
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/companies [post]
func (h *CompanyHandler) RegisterCompany(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.HasCompany() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Your account is already linked to a company",
			"code":  "COMPANY_EXISTS",
		})
		return
	}

	var req models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	company := models.Company{
		Name:         req.Name,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		Website:      req.Website,
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
		CreatedBy:    userID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("company_id", company.ID).Error
	})
	if err != nil {
		h.logger.Error("Failed to register company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register company"})
		return
	}

	h.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", userID.String()))

	c.JSON(http.StatusCreated, gin.H{
		"company": company,
		"message": "Company registered. Re-authenticate to refresh your session claims.",
	})
}

// ListCompanies handles the public company directory
// @Summary List companies
// @Description Get companies with at least one live job posting
// @Tags companies
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by name"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.Company{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var companies []models.Company
	if err := query.Scopes(database.Paginate(page, limit)).
		Order("name ASC").
		Find(&companies).Error; err != nil {
		h.logger.Error("Failed to fetch companies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies":  companies,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// GetCompany handles fetching a company profile
// @Summary Get company
// @Description Get a company profile with its live job postings
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
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

	// Only live postings are shown on the public profile
	var jobs []models.JobPosting
	h.db.Where("company_id = ? AND status = ?", companyID, models.JobStatusApproved).
		Order("published_at DESC").
		Find(&jobs)

	jobResponses := make([]models.JobResponse, len(jobs))
	for i, job := range jobs {
		jobResponses[i] = job.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"company": company,
		"jobs":    jobResponses,
	})
}

// UpdateCompany handles editing a company profile
// @Summary Update company
// @Description Update the company profile. Only the owner or an admin may edit it.
// @Tags companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body models.CreateCompanyRequest true "Company fields"
// @Success 200 {object} models.Company
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/companies/{id} [patch]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
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

	ownCompanyID, hasCompany := middleware.GetCurrentCompanyID(c)
	if !middleware.IsAdmin(c) && (!hasCompany || ownCompanyID != companyID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not manage this company", "code": "NOT_OWNER"})
		return
	}

	var req models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"description":   req.Description,
		"logo_url":      req.LogoURL,
		"website":       req.Website,
		"location":      req.Location,
		"contact_email": req.ContactEmail,
	}

	if err := h.db.Model(&company).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to update company", zap.Error(err), zap.String("company_id", companyID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}
