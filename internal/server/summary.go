package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
)

// GetSummary returns total forecast quantity and surcharge-adjusted value
// grouped by SKU and region.
func (s *Server) GetSummary(c *gin.Context) {
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

	req := forecastdomain.SummaryRequest{
		StartDate: startDate,
		EndDate:   endDate,
		SKU:       c.Query("sku"),
		Region:    c.Query("region"),
		SortBy:    c.Query("sort_by"),
		OrderBy:   c.Query("order_by"),
	}

	rows, err := s.forecastSvc.Summary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Summary Details",
		"data":    rows,
	})
}
