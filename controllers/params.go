package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID reads a positive numeric ":id" parameter and writes a 400 otherwise.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
