package controllers

import (
	"errors"
	"net/http"

	"foodlens/health"
	"foodlens/middlewares"
	"foodlens/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HealthController struct {
	Health *services.HealthService
	Log    *logrus.Entry
}

func NewHealthController(svc *services.HealthService, log *logrus.Entry) *HealthController {
	return &HealthController{Health: svc, Log: log.WithField("component", "health_controller")}
}

// Run computes the test named by :type from the JSON body.
func (hc *HealthController) Run(c *gin.Context) {
	t, err := health.ParseTestType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	in, err := health.DecodeInput(t, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := hc.Health.Run(c.Request.Context(), middlewares.UserID(c), in)
	var verr *health.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, health.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSaveFailed):
		// the result is still shown; the client reports that it was not stored
		c.JSON(http.StatusOK, gin.H{"result": out.Result, "saved": false, "warning": services.ErrSaveFailed.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, out)
	}
}

func (hc *HealthController) History(c *gin.Context) {
	var t health.TestType
	if q := c.Query("type"); q != "" {
		parsed, err := health.ParseTestType(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t = parsed
	}

	entries, err := hc.Health.History(c.Request.Context(), middlewares.UserID(c), t)
	if err != nil {
		hc.Log.WithError(err).Error("health history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load health tests"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (hc *HealthController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := hc.Health.Delete(c.Request.Context(), middlewares.UserID(c), id)
	if errors.Is(err, services.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "health test deleted"})
}
