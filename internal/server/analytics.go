package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
)

// GetAnalytics returns the per-region analytics rollup. Every region appears
// in the response even when it has no forecast rows.
func (s *Server) GetAnalytics(c *gin.Context) {
	startDate, err := parseOptionalDate(c.Query("start_date"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	endDate, err := parseOptionalDate(c.Query("end_date"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	analytics, err := s.forecastSvc.Analytics(c.Request.Context(), forecastdomain.AnalyticsRequest{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Advance Analytics",
		"data":    analytics,
	})
}
