package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/usecase/connection"
)

type ConnectionHandler struct {
	connectionUseCase *connection.ConnectionUseCase
}

func NewConnectionHandler(connectionUseCase *connection.ConnectionUseCase) *ConnectionHandler {
	return &ConnectionHandler{connectionUseCase: connectionUseCase}
}

type reachOutRequest struct {
	RecipientUserID int     `json:"recipient_user_id" binding:"required"`
	PersonalMessage *string `json:"personal_message"`
}

// ReachOut handles POST /reach-out
func (h *ConnectionHandler) ReachOut(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req reachOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "recipient_user_id is required"})
		return
	}

	remaining, err := h.connectionUseCase.ReachOut(c.Request.Context(), userID, req.RecipientUserID, req.PersonalMessage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "Reach out email sent successfully!",
		"email_sent":           true,
		"remaining_reach_outs": remaining,
	})
}

// ReachOutStatus handles GET /reach-out/status
func (h *ConnectionHandler) ReachOutStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.connectionUseCase.ReachOutStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"used_today":    status.UsedToday,
		"remaining":     status.Remaining,
		"daily_limit":   status.DailyLimit,
		"can_reach_out": status.Remaining > 0,
	})
}

type connectionResponse struct {
	ReachOutID      int          `json:"reach_out_id"`
	OtherUser       *domain.User `json:"other_user"`
	IsSender        bool         `json:"is_sender"`
	PersonalMessage *string      `json:"personal_message"`
	Met             *bool        `json:"met"`
	HasRating       bool         `json:"has_rating"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Connections handles GET /connections
func (h *ConnectionHandler) Connections(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	infos, err := h.connectionUseCase.Connections(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]connectionResponse, len(infos))
	for i, info := range infos {
		out[i] = connectionResponse{
			ReachOutID:      info.ReachOut.ID,
			OtherUser:       info.OtherUser,
			IsSender:        info.IsSender,
			PersonalMessage: info.ReachOut.PersonalMessage,
			Met:             info.ReachOut.Met,
			HasRating:       info.HasRating,
			CreatedAt:       info.ReachOut.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"connections": out,
		"total":       len(out),
	})
}

type markMetRequest struct {
	ReachOutID int   `json:"reach_out_id" binding:"required"`
	Met        *bool `json:"met" binding:"required"`
}

// MarkMet handles POST /connections/mark-met
func (h *ConnectionHandler) MarkMet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req markMetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reach_out_id and met are required"})
		return
	}

	if err := h.connectionUseCase.MarkMet(c.Request.Context(), userID, req.ReachOutID, *req.Met); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Meeting status updated",
		"reach_out_id": req.ReachOutID,
	})
}

// RatingCriteria handles GET /connections/:reach_out_id/rating-criteria
func (h *ConnectionHandler) RatingCriteria(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reachOutID, err := strconv.Atoi(c.Param("reach_out_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reach_out_id must be an integer"})
		return
	}

	criteria, err := h.connectionUseCase.RatingCriteria(c.Request.Context(), userID, reachOutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"criteria": criteria})
}

type rateRequest struct {
	ReachOutID     int     `json:"reach_out_id" binding:"required"`
	Criterion1     string  `json:"criterion_1" binding:"required"`
	Rating1        int     `json:"rating_1" binding:"required,min=1,max=5"`
	Criterion2     string  `json:"criterion_2" binding:"required"`
	Rating2        int     `json:"rating_2" binding:"required,min=1,max=5"`
	Criterion3     string  `json:"criterion_3" binding:"required"`
	Rating3        int     `json:"rating_3" binding:"required,min=1,max=5"`
	ReflectionNote *string `json:"reflection_note"`
}

// Rate handles POST /connections/rate
func (h *ConnectionHandler) Rate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "three criteria with ratings between 1 and 5 are required"})
		return
	}

	rating, err := h.connectionUseCase.Rate(c.Request.Context(), userID, connection.RatingSubmission{
		ReachOutID:     req.ReachOutID,
		Criterion1:     req.Criterion1,
		Rating1:        req.Rating1,
		Criterion2:     req.Criterion2,
		Rating2:        req.Rating2,
		Criterion3:     req.Criterion3,
		Rating3:        req.Rating3,
		ReflectionNote: req.ReflectionNote,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Rating submitted successfully",
		"rating_id": rating.ID,
	})
}

// Notes handles GET /notes
func (h *ConnectionHandler) Notes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notes, err := h.connectionUseCase.Notes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"total": len(notes),
	})
}
