package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/services"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

// POST /api/recommendations
// { user_id, top_k? }
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id"`
		TopK   int    `json:"top_k"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respond(c, req.UserID, req.TopK)
}

// GET /api/recommendations/:user_id?top_k=
func (h *RecommendationHandler) GetRecommendationsByID(c *gin.Context) {
	userID := c.Param("user_id")
	topK, _ := strconv.Atoi(c.DefaultQuery("top_k", "10"))
	h.respond(c, userID, topK)
}

func (h *RecommendationHandler) respond(c *gin.Context, userID string, topK int) {
	resp, err := h.recSvc.GetRecommendations(c.Request.Context(), userID, topK)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, resp)
}
