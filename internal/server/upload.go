package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	uploaddomain "github.com/smallbiznis/demandcast/internal/upload/domain"
)

// UploadForecast ingests a forecast CSV from a multipart form field named
// "file".
func (s *Server) UploadForecast(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, uploaddomain.ErrInvalidFileType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	result, err := s.uploadSvc.Upload(c.Request.Context(), uploaddomain.Request{
		Filename: fileHeader.Filename,
		Data:     file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
