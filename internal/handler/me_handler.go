package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yak/internal/middleware"
	"yak/internal/repository"
)

type MeHandler struct {
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

func NewMeHandler(userRepo *repository.UserRepository, postRepo *repository.PostRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, postRepo: postRepo}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Fullname *string `json:"fullname"`
		AboutMe  *string `json:"about_me"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Fullname != nil {
		u.Fullname = *req.Fullname
	}
	if req.AboutMe != nil {
		u.AboutMe = *req.AboutMe
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Feed lists the newest posts from the users the caller follows.
func (h *MeHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	posts, err := h.postRepo.Feed(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "feed failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
