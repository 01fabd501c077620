package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/repository"
	"github.com/studybuddy/backend/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

type emailRequest struct {
	SchoolEmail string `json:"school_email" binding:"required,email"`
}

// RequestVerification handles POST /auth/request-verification
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a valid school email is required"})
		return
	}

	if err := h.authUseCase.RequestVerification(c.Request.Context(), req.SchoolEmail); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Verification email sent successfully. Please check your email to continue.",
		"email_sent": true,
	})
}

// ResendVerification handles POST /auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a valid school email is required"})
		return
	}

	if err := h.authUseCase.ResendVerification(c.Request.Context(), req.SchoolEmail); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "New verification email sent successfully. Please check your email to continue.",
		"email_sent": true,
	})
}

// Verify handles POST /auth/verify/:code
func (h *AuthHandler) Verify(c *gin.Context) {
	code := c.Param("code")

	user, action, err := h.authUseCase.Verify(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	if action == repository.VerifyActionReject {
		c.JSON(http.StatusOK, gin.H{
			"message": "Signup rejected. The account has been removed.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully! Please set your password to continue.",
		"user":    user,
	})
}

type passwordSetupRequest struct {
	UserID   int    `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// SetupPassword handles POST /auth/setup-password
func (h *AuthHandler) SetupPassword(c *gin.Context) {
	var req passwordSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id and a password of at least 8 characters are required"})
		return
	}

	token, user, err := h.authUseCase.SetupPassword(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Password set successfully. You are now logged in!",
		"user_id":      user.ID,
		"access_token": token,
		"token_type":   "bearer",
	})
}

type profileSetupRequest struct {
	Name              string   `json:"name" binding:"required"`
	Gender            *string  `json:"gender"`
	Major             *string  `json:"major"`
	AcademicYear      *string  `json:"academic_year"`
	ProfilePicture    *string  `json:"profile_picture"`
	ClassesTaking     []string `json:"classes_taking"`
	ClassesTaken      []string `json:"classes_taken"`
	LearnBestWhen     *string  `json:"learn_best_when"`
	StudySnack        *string  `json:"study_snack"`
	FavoriteStudySpot *string  `json:"favorite_study_spot"`
	MBTI              *string  `json:"mbti"`
	YapToStudyRatio   *string  `json:"yap_to_study_ratio"`
}

// SetupProfile handles POST /auth/setup-profile
func (h *AuthHandler) SetupProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profileSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	user, err := h.authUseCase.SetupProfile(c.Request.Context(), userID, auth.ProfileSetup{
		Name:              req.Name,
		Gender:            req.Gender,
		Major:             req.Major,
		AcademicYear:      req.AcademicYear,
		ProfilePicture:    req.ProfilePicture,
		ClassesTaking:     req.ClassesTaking,
		ClassesTaken:      req.ClassesTaken,
		LearnBestWhen:     req.LearnBestWhen,
		StudySnack:        req.StudySnack,
		FavoriteStudySpot: req.FavoriteStudySpot,
		MBTI:              req.MBTI,
		YapToStudyRatio:   req.YapToStudyRatio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile completed successfully! Welcome to Study Buddy.",
		"user":    user,
	})
}

type loginRequest struct {
	SchoolEmail string `json:"school_email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "school_email and password are required"})
		return
	}

	token, user, err := h.authUseCase.Login(c.Request.Context(), req.SchoolEmail, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authUseCase.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
