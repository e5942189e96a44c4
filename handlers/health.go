package handlers

import (
	"log"
	"net/http"
	"posts/db"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	if err := db.Ping(); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, Response{"database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
