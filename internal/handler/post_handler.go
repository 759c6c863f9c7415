package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yak/internal/middleware"
	"yak/internal/repository"
	"yak/internal/service"
	"yak/pkg/cloudinary"
)

type PostHandler struct {
	postSvc  *service.PostService
	postRepo *repository.PostRepository
	tagRepo  *repository.TagRepository
	cloud    cloudinary.Client
}

func NewPostHandler(postSvc *service.PostService, postRepo *repository.PostRepository, tagRepo *repository.TagRepository, cloud cloudinary.Client) *PostHandler {
	return &PostHandler{postSvc: postSvc, postRepo: postRepo, tagRepo: tagRepo, cloud: cloud}
}

func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=100"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.postSvc.CreatePost(c.Request.Context(), middleware.GetUserID(c), req.Title, req.Description, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Title       string `json:"title" binding:"required,max=100"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.postSvc.UpdatePost(c.Request.Context(), middleware.GetUserID(c), uint(id), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrNotPostOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	err := h.postSvc.DeletePost(middleware.GetUserID(c), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotPostOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Tags lists known hashtags alphabetically.
func (h *PostHandler) Tags(c *gin.Context) {
	limit, offset := pagination(c)
	tags, err := h.tagRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// UploadThumbnail accepts a multipart image and attaches it to the post.
func (h *PostHandler) UploadThumbnail(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if p.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the post owner"})
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	publicID := fmt.Sprintf("post_%d_%d", p.ID, time.Now().Unix())
	_, thumbURL, err := h.cloud.UploadImage(c.Request.Context(), file, "post_thumbnails", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	p.ThumbnailURL = thumbURL
	if err := h.postRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}
