package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/usecase/buddylist"
)

const defaultPageSize = 20

type BuddyListHandler struct {
	buddyListUseCase *buddylist.BuddyListUseCase
}

func NewBuddyListHandler(buddyListUseCase *buddylist.BuddyListUseCase) *BuddyListHandler {
	return &BuddyListHandler{buddyListUseCase: buddyListUseCase}
}

// candidateResponse is the list-view card for one user.
type candidateResponse struct {
	User            *domain.User `json:"user"`
	SimilarityScore float64      `json:"similarity_score"`
	AverageRating   *float64     `json:"average_rating"`
}

// ListUsers handles GET /list/users?cursor=&limit=
func (h *BuddyListHandler) ListUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var cursor *int
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cursor must be an integer"})
			return
		}
		cursor = &parsed
	}

	limit := defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	page, err := h.buddyListUseCase.ListUsers(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	users := make([]candidateResponse, len(page.Candidates))
	for i, candidate := range page.Candidates {
		users[i] = candidateResponse{
			User:            candidate.User,
			SimilarityScore: candidate.SimilarityScore,
			AverageRating:   candidate.AverageRating,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"next_cursor": page.NextCursor,
		"has_more":    page.HasMore,
	})
}

type selectRequest struct {
	SelectedUserID int `json:"selected_user_id" binding:"required"`
}

// Select handles POST /list/select
func (h *BuddyListHandler) Select(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "selected_user_id is required"})
		return
	}

	if err := h.buddyListUseCase.Select(c.Request.Context(), userID, req.SelectedUserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Selection recorded"})
}
