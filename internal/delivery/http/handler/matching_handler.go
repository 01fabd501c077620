package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/usecase/matching"
)

type MatchingHandler struct {
	matchingUseCase *matching.MatchingUseCase
}

func NewMatchingHandler(matchingUseCase *matching.MatchingUseCase) *MatchingHandler {
	return &MatchingHandler{matchingUseCase: matchingUseCase}
}

type approvalRequest struct {
	ApprovedUserID int   `json:"approved_user_id" binding:"required"`
	IsApproved     *bool `json:"is_approved" binding:"required"`
}

// Approve handles POST /approve-user
func (h *MatchingHandler) Approve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "approved_user_id and is_approved are required"})
		return
	}

	approval, mutual, err := h.matchingUseCase.Approve(c.Request.Context(), userID, req.ApprovedUserID, *req.IsApproved)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "User rejected."
	if *req.IsApproved {
		message = "User approved."
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":         message,
		"approval_id":     approval.ID,
		"is_mutual_match": mutual,
	})
}

type matchResponse struct {
	User      *domain.User `json:"user"`
	MatchedAt time.Time    `json:"matched_at"`
}

// MutualMatches handles GET /mutual-matches
func (h *MatchingHandler) MutualMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchingUseCase.MutualMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]matchResponse, len(matches))
	for i, match := range matches {
		out[i] = matchResponse{User: match.User, MatchedAt: match.MatchedAt}
	}
	c.JSON(http.StatusOK, gin.H{
		"matches": out,
		"total":   len(out),
	})
}

// PotentialMatches handles GET /potential-matches
func (h *MatchingHandler) PotentialMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	users, err := h.matchingUseCase.PotentialMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CleanupOldApprovals handles POST /cleanup-old-approvals
func (h *MatchingHandler) CleanupOldApprovals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	deleted, err := h.matchingUseCase.CleanupOldApprovals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Old approvals cleaned up",
		"deleted_count": deleted,
	})
}
