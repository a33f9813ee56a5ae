package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/HeyBatlle1/tos-salad/service"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type CompanyHandler struct {
	store *service.Store
}

func NewCompanyHandler(store *service.Store) *CompanyHandler {
	return &CompanyHandler{store: store}
}

// List returns all companies with their latest analysis summary
func (h *CompanyHandler) List(c *gin.Context) {
	listings, err := h.store.ListCompanies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list companies"})
		return
	}

	rows := lo.Map(listings, func(l service.CompanyListing, _ int) gin.H {
		row := gin.H{
			"name":     l.Company.Name,
			"domain":   l.Company.Domain,
			"industry": l.Company.Industry,
			"tos_url":  l.Company.TosURL,
		}
		if l.Analysis != nil {
			row["transparency_score"] = l.Analysis.TransparencyScore
			row["user_friendliness_score"] = l.Analysis.UserFriendlinessScore
			row["privacy_score"] = l.Analysis.PrivacyScore
			row["manipulation_risk_score"] = l.Analysis.ManipulationRiskScore
			row["executive_summary"] = l.Analysis.ExecutiveSummary
		}
		return row
	})

	c.JSON(http.StatusOK, gin.H{"companies": rows})
}

// Get returns one company with its latest document and full analysis
func (h *CompanyHandler) Get(c *gin.Context) {
	domain := c.Param("domain")

	detail, err := h.store.GetCompanyDetail(c.Request.Context(), domain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// RecentReports lists recent sanitized verification records
func (h *CompanyHandler) RecentReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	recs, err := h.store.RecentReports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": recs})
}
