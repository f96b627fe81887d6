package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"zedlink-careers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestPartnerHandler(t *testing.T) (*PartnerHandler, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	return NewPartnerHandler(db, zap.NewNop()), db
}

func createFeaturedPartner(t *testing.T, db *gorm.DB, rating float64, until *time.Time) models.RecruitmentPartner {
	t.Helper()

	partner := models.RecruitmentPartner{
		CompanyName:   "Agency " + uuid.New().String(),
		Email:         uuid.New().String() + "@example.com",
		ContactPerson: "Pat Agent",
		Rating:        rating,
		IsFeatured:    true,
		FeaturedUntil: until,
		Status:        models.PartnerStatusApproved,
	}
	require.NoError(t, db.Create(&partner).Error)
	return partner
}

func TestListPartners_FeaturedTopThreeByRating(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestPartnerHandler(t)

	future := time.Now().Add(24 * time.Hour)
	createFeaturedPartner(t, db, 4.8, nil)
	createFeaturedPartner(t, db, 4.2, &future)
	createFeaturedPartner(t, db, 3.9, nil)
	createFeaturedPartner(t, db, 3.1, nil)

	router := gin.New()
	router.GET("/partners", handler.ListPartners)

	recorder := performJSON(router, http.MethodGet, "/partners?featured=true", nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response struct {
		Partners []models.RecruitmentPartner `json:"partners"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.Len(t, response.Partners, 3)
	assert.Equal(t, 4.8, response.Partners[0].Rating)
	assert.Equal(t, 4.2, response.Partners[1].Rating)
	assert.Equal(t, 3.9, response.Partners[2].Rating)
}

func TestListPartners_FeaturedExpiryHonored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestPartnerHandler(t)

	// Highest-rated placement has lapsed but the flag was never cleared
	past := time.Now().Add(-time.Hour)
	expired := createFeaturedPartner(t, db, 5.0, &past)
	active := createFeaturedPartner(t, db, 4.0, nil)

	router := gin.New()
	router.GET("/partners", handler.ListPartners)

	recorder := performJSON(router, http.MethodGet, "/partners?featured=true", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Partners []models.RecruitmentPartner `json:"partners"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.Len(t, response.Partners, 1)
	assert.Equal(t, active.ID, response.Partners[0].ID)
	assert.NotEqual(t, expired.ID, response.Partners[0].ID)
}

func TestListPartners_DirectoryOnlyApproved(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestPartnerHandler(t)

	approved := createFeaturedPartner(t, db, 4.0, nil)

	suspended := models.RecruitmentPartner{
		CompanyName:   "Suspended Agency",
		Email:         "suspended@example.com",
		ContactPerson: "Pat Agent",
		Status:        models.PartnerStatusSuspended,
	}
	require.NoError(t, db.Create(&suspended).Error)

	router := gin.New()
	router.GET("/partners", handler.ListPartners)

	recorder := performJSON(router, http.MethodGet, "/partners", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Partners []models.RecruitmentPartner `json:"partners"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.Len(t, response.Partners, 1)
	assert.Equal(t, approved.ID, response.Partners[0].ID)
}
