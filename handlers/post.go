package handlers

import (
	"errors"
	"log"
	"net/http"
	"posts/metrics"
	"posts/models"
	"posts/push"

	"github.com/gin-gonic/gin"
)

type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// RegisterPostRoutes mounts the posts resource under r, e.g. router.Group("/api")
func RegisterPostRoutes(r gin.IRouter) {
	r.GET("/posts", PostList)
	r.POST("/posts", PostCreate)
	r.PUT("/posts/:id", PostUpdate)
	r.DELETE("/posts/:id", PostDelete)
	r.GET("/posts/events", PostEvents)
}

func PostList(c *gin.Context) {
	posts, err := models.PostList()
	if err != nil {
		storeError("list", err)
		c.JSON(http.StatusInternalServerError, ListFailedResponse)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func PostCreate(c *gin.Context) {
	r := PostRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, MissingFieldsResponse)
		return
	}
	post, err := models.PostCreate(r.Title, r.Content)
	if err != nil {
		storeError("create", err)
		c.JSON(http.StatusInternalServerError, CreateFailedResponse)
		return
	}
	push.PostCreated(post.ID)
	c.JSON(http.StatusCreated, post)
}

func PostUpdate(c *gin.Context) {
	r := PostRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, MissingFieldsResponse)
		return
	}
	post, err := models.PostUpdate(c.Param("id"), r.Title, r.Content)
	if errors.Is(err, models.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	} else if err != nil {
		storeError("update", err)
		c.JSON(http.StatusInternalServerError, UpdateFailedResponse)
		return
	}
	push.PostUpdated(post.ID)
	c.JSON(http.StatusOK, post)
}

func PostDelete(c *gin.Context) {
	id := c.Param("id")
	err := models.PostDelete(id)
	if errors.Is(err, models.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	} else if err != nil {
		storeError("delete", err)
		c.JSON(http.StatusInternalServerError, DeleteFailedResponse)
		return
	}
	push.PostDeleted(id)
	c.JSON(http.StatusOK, DeletedResponse)
}

func storeError(op string, err error) {
	log.Printf("Post %s failed: %v", op, err)
	metrics.StoreErrors.WithLabelValues(op).Inc()
}
