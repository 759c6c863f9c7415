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

type NotificationHandler struct {
	notifSvc      *service.NotificationService
	notifications *repository.NotificationRepository
	settings      *repository.NotificationSettingRepository
}

func NewNotificationHandler(notifSvc *service.NotificationService, notifications *repository.NotificationRepository, settings *repository.NotificationSettingRepository) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc, notifications: notifications, settings: settings}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.notifications.ListByUserID(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// Settings returns the caller's per-type channel preferences.
func (h *NotificationHandler) Settings(c *gin.Context) {
	list, err := h.settings.ListByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

// UpdateSetting flips the channel flags on one of the caller's own settings.
// Looking the row up by (id, user) keeps one user from editing another's
// preferences.
func (h *NotificationHandler) UpdateSetting(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		AllowPush  *bool `json:"allow_push"`
		AllowEmail *bool `json:"allow_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	setting, err := h.settings.GetByIDAndUser(uint(id), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if req.AllowPush != nil {
		setting.AllowPush = *req.AllowPush
	}
	if req.AllowEmail != nil {
		setting.AllowEmail = *req.AllowEmail
	}
	if err := h.settings.Update(setting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

// RegisterDevice registers a push token with the provider and stores it for the
// caller.
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		HWID     string `json:"hwid" binding:"required"`
		Platform string `json:"platform" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	err := h.notifSvc.RegisterDevice(c.Request.Context(), middleware.GetUserID(c), req.Token, req.HWID, req.Platform, req.Language)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}
