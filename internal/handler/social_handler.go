package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yak/internal/middleware"
	"yak/internal/repository"
	"yak/internal/service"
)

type SocialHandler struct {
	socialSvc *service.SocialService
	follows   *repository.FollowRepository
	likes     *repository.LikeRepository
	comments  *repository.CommentRepository
}

func NewSocialHandler(socialSvc *service.SocialService, follows *repository.FollowRepository, likes *repository.LikeRepository, comments *repository.CommentRepository) *SocialHandler {
	return &SocialHandler{socialSvc: socialSvc, follows: follows, likes: likes, comments: comments}
}

func (h *SocialHandler) Follow(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	err := h.socialSvc.Follow(c.Request.Context(), middleware.GetUserID(c), uint(targetID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyFollows):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "follow failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "following"})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.socialSvc.Unfollow(middleware.GetUserID(c), uint(targetID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unfollow failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unfollowed"})
}

func (h *SocialHandler) Followers(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, offset := pagination(c)
	list, err := h.follows.ListFollowers(uint(userID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": list})
}

func (h *SocialHandler) Following(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, offset := pagination(c)
	list, err := h.follows.ListFollowing(uint(userID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": list})
}

func (h *SocialHandler) Like(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	err := h.socialSvc.Like(c.Request.Context(), middleware.GetUserID(c), uint(postID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyLiked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

func (h *SocialHandler) Unlike(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.socialSvc.Unlike(middleware.GetUserID(c), uint(postID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlike failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unliked"})
}

func (h *SocialHandler) LikeCount(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	count, err := h.likes.CountByPostID(uint(postID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": count})
}

func (h *SocialHandler) CreateComment(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.socialSvc.Comment(c.Request.Context(), middleware.GetUserID(c), uint(postID), req.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comment failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *SocialHandler) Comments(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, offset := pagination(c)
	list, err := h.comments.ListByPostID(uint(postID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
