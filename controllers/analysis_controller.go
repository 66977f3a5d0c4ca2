package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"foodlens/middlewares"
	"foodlens/services"
	"foodlens/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalysisController struct {
	Analysis      *services.AnalysisService
	MaxImageBytes int64
	Log           *logrus.Entry
}

func NewAnalysisController(analysis *services.AnalysisService, maxImageBytes int64, log *logrus.Entry) *AnalysisController {
	return &AnalysisController{
		Analysis:      analysis,
		MaxImageBytes: maxImageBytes,
		Log:           log.WithField("component", "analysis_controller"),
	}
}

type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// readImage accepts a JSON data URI or a multipart "file" field.
func (ac *AnalysisController) readImage(c *gin.Context) (utils.Image, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return utils.Image{}, fmt.Errorf("%w: missing file field", utils.ErrInvalidImage)
		}
		if ac.MaxImageBytes > 0 && fh.Size > ac.MaxImageBytes {
			return utils.Image{}, fmt.Errorf("%w: image larger than %d bytes", utils.ErrInvalidImage, ac.MaxImageBytes)
		}
		f, err := fh.Open()
		if err != nil {
			return utils.Image{}, err
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return utils.Image{}, err
		}
		return utils.NewImage(fh.Header.Get("Content-Type"), data, ac.MaxImageBytes)
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return utils.Image{}, fmt.Errorf("%w: %v", utils.ErrInvalidImage, err)
	}
	return utils.ParseDataURI(req.ImageBase64, ac.MaxImageBytes)
}

func (ac *AnalysisController) Analyze(c *gin.Context) {
	img, err := ac.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang := services.ParseLanguage(c.Query("lang"))
	out, err := ac.Analysis.Analyze(c.Request.Context(), middlewares.UserID(c), img, lang)
	switch {
	case errors.Is(err, services.ErrVisionNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		ac.Log.WithError(err).Error("analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to analyze image", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, out)
}

func (ac *AnalysisController) List(c *gin.Context) {
	rows, err := ac.Analysis.List(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		ac.Log.WithError(err).Error("list analyses failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analyses"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (ac *AnalysisController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := ac.Analysis.Delete(c.Request.Context(), middlewares.UserID(c), id)
	if errors.Is(err, services.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}
