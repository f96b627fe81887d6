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

type PartnerHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPartnerHandler(db *gorm.DB, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		db:     db,
		logger: logger,
	}
}

// RegisterPartner handles an agency applying for the partner directory
// @Summary Register recruitment partner
// @Description Submit a partner application. Listings go live after admin approval.
// @Tags partners
// @Accept json
// @Produce json
// @Param request body models.RegisterPartnerRequest true "Partner data"
// @Success 201 {object} models.RecruitmentPartner
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/partners [post]
func (h *PartnerHandler) RegisterPartner(c *gin.Context) {
	var req models.RegisterPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	var existing models.RecruitmentPartner
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "A partner application with this email already exists",
			"code":  "EMAIL_TAKEN",
		})
		return
	}

	partner := models.RecruitmentPartner{
		CompanyName:        req.CompanyName,
		Email:              req.Email,
		Phone:              req.Phone,
		Website:            req.Website,
		Address:            req.Address,
		LogoURL:            req.LogoURL,
		ContactPerson:      req.ContactPerson,
		RegistrationNumber: req.RegistrationNumber,
		Specialty:          req.Specialty,
		Description:        req.Description,
		YearsInBusiness:    req.YearsInBusiness,
		TeamSize:           req.TeamSize,
		Status:             models.PartnerStatusPending,
	}

	if err := h.db.Create(&partner).Error; err != nil {
		h.logger.Error("Failed to create partner", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit partner application"})
		return
	}

	h.logger.Info("Partner application submitted",
		zap.String("partner_id", partner.ID.String()),
		zap.String("company_name", partner.CompanyName))

	c.JSON(http.StatusCreated, gin.H{"partner": partner})
}

// featuredPartnerLimit caps the featured directory view.
const featuredPartnerLimit = 3

// ListPartners handles the public partner directory
// @Summary List recruitment partners
// @Description Get approved partners, featured agencies first. The featured view returns the top 3 by rating with unexpired placement.
// @Tags partners
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param specialty query string false "Filter by specialty"
// @Param featured query bool false "Only featured partners"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/partners [get]
func (h *PartnerHandler) ListPartners(c *gin.Context) {
	if c.Query("featured") == "true" {
		h.listFeaturedPartners(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.RecruitmentPartner{}).Where("status = ?", models.PartnerStatusApproved)

	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("specialty = ?", specialty)
	}

	var total int64
	query.Count(&total)

	var partners []models.RecruitmentPartner
	if err := query.Scopes(database.Paginate(page, limit)).
		Order("is_featured DESC, rating DESC").
		Find(&partners).Error; err != nil {
		h.logger.Error("Failed to fetch partners", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partners"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partners":   partners,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// listFeaturedPartners returns the top featured agencies by rating.
// Expired placements are dropped even while is_featured is still set.
func (h *PartnerHandler) listFeaturedPartners(c *gin.Context) {
	var candidates []models.RecruitmentPartner
	if err := h.db.
		Where("status = ? AND is_featured = ?", models.PartnerStatusApproved, true).
		Order("rating DESC").
		Find(&candidates).Error; err != nil {
		h.logger.Error("Failed to fetch featured partners", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partners"})
		return
	}

	partners := make([]models.RecruitmentPartner, 0, featuredPartnerLimit)
	for _, partner := range candidates {
		if !partner.IsCurrentlyFeatured() {
			continue
		}
		partners = append(partners, partner)
		if len(partners) == featuredPartnerLimit {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"partners": partners,
		"total":    len(partners),
	})
}

// GetPartner handles fetching a partner profile
// @Summary Get recruitment partner
// @Description Get an approved partner's profile with reviews
// @Tags partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} models.RecruitmentPartner
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/partners/{id} [get]
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	var partner models.RecruitmentPartner
	if err := h.db.Preload("Reviews").First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	if !partner.IsApproved() && !middleware.IsAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

// ReviewPartner handles leaving a review for a partner
// @Summary Review recruitment partner
// @Description Leave a rating and comment for an approved partner. One review per user.
// @Tags partners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param request body models.ReviewPartnerRequest true "Review data"
// @Success 201 {object} models.PartnerReview
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/partners/{id}/reviews [post]
func (h *PartnerHandler) ReviewPartner(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	var partner models.RecruitmentPartner
	if err := h.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	if !partner.IsApproved() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	var req models.ReviewPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	var existing models.PartnerReview
	if err := h.db.Where("partner_id = ? AND user_id = ?", partnerID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "You have already reviewed this partner",
			"code":  "ALREADY_REVIEWED",
		})
		return
	}

	review := models.PartnerReview{
		PartnerID: partnerID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		// Keep the stored aggregate in sync
		var avg float64
		if err := tx.Model(&models.PartnerReview{}).
			Where("partner_id = ?", partnerID).
			Select("AVG(rating)").
			Scan(&avg).Error; err != nil {
			return err
		}
		return tx.Model(&partner).Update("rating", avg).Error
	})
	if err != nil {
		h.logger.Error("Failed to create review", zap.Error(err), zap.String("partner_id", partnerID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}
