package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/services"
)

type ActivityHandler struct {
	log         *logger.Logger
	activitySvc services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activitySvc services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		log:         log.With("handler", "ActivityHandler"),
		activitySvc: activitySvc,
	}
}

type trackedActivity struct {
	ActivityID   string    `json:"activity_id"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	ItemID       string    `json:"item_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// POST /api/activities
func (h *ActivityHandler) Track(c *gin.Context) {
	var req services.TrackActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	activity, err := h.activitySvc.Track(c.Request.Context(), nil, req)
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	ack := trackedActivity{
		ActivityID:   activity.ID.String(),
		UserID:       activity.UserID.String(),
		ActivityType: activity.ActivityType,
		Timestamp:    activity.CreatedAt,
	}
	if activity.ItemID != nil {
		ack.ItemID = *activity.ItemID
	}
	RespondOK(c, gin.H{"activity": ack})
}

// GET /api/activities/:user_id
func (h *ActivityHandler) Recent(c *gin.Context) {
	userID := c.Param("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	activities, err := h.activitySvc.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"user_id": userID, "activities": activities})
}

// GET /api/activities/:user_id/stats
func (h *ActivityHandler) Stats(c *gin.Context) {
	userID := c.Param("user_id")

	stats, err := h.activitySvc.Stats(c.Request.Context(), userID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"user_id":          userID,
		"total_activities": stats.TotalActivities,
		"activity_types":   stats.ActivityTypes,
		"last_activity":    stats.LastActivity,
	})
}
