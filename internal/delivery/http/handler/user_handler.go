package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/usecase/user"
)

// maxProfilePictureBytes caps uploads at 5 MB.
const maxProfilePictureBytes = 5 << 20

type UserHandler struct {
	userUseCase *user.UserUseCase
}

func NewUserHandler(userUseCase *user.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

// GetUser handles GET /user/:user_id
func (h *UserHandler) GetUser(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	targetID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	target, err := h.userUseCase.GetUser(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

type profileUpdateRequest struct {
	Name              *string  `json:"name"`
	Gender            *string  `json:"gender"`
	Major             *string  `json:"major"`
	AcademicYear      *string  `json:"academic_year"`
	ClassesTaking     []string `json:"classes_taking"`
	ClassesTaken      []string `json:"classes_taken"`
	LearnBestWhen     *string  `json:"learn_best_when"`
	StudySnack        *string  `json:"study_snack"`
	FavoriteStudySpot *string  `json:"favorite_study_spot"`
	MBTI              *string  `json:"mbti"`
	YapToStudyRatio   *string  `json:"yap_to_study_ratio"`
}

// Update handles PUT /user/update
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.userUseCase.UpdateProfile(c.Request.Context(), userID, user.ProfileUpdate{
		Name:              req.Name,
		Gender:            req.Gender,
		Major:             req.Major,
		AcademicYear:      req.AcademicYear,
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
	c.JSON(http.StatusOK, updated)
}

type preferencesRequest struct {
	MatchByGender           bool `json:"match_by_gender"`
	MatchByMajor            bool `json:"match_by_major"`
	MatchByAcademicYear     bool `json:"match_by_academic_year"`
	MatchByClasses          bool `json:"match_by_classes"`
	MatchByStudyPreferences bool `json:"match_by_study_preferences"`
}

// UpdatePreferences handles PUT /user/preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.userUseCase.UpdatePreferences(c.Request.Context(), userID, user.Preferences{
		MatchByGender:           req.MatchByGender,
		MatchByMajor:            req.MatchByMajor,
		MatchByAcademicYear:     req.MatchByAcademicYear,
		MatchByClasses:          req.MatchByClasses,
		MatchByStudyPreferences: req.MatchByStudyPreferences,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CompleteOnboarding handles POST /onboarding/complete
func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.userUseCase.CompleteOnboarding(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Onboarding completed",
		"user":    updated,
	})
}

type surveyRequest struct {
	Q1StudyAlone              int `json:"q1_study_alone" binding:"required,min=1,max=5"`
	Q2EnjoyStudyingWithOthers int `json:"q2_enjoy_studying_with_others" binding:"required,min=1,max=5"`
	Q3EasilyFindStudyBuddy    int `json:"q3_easily_find_study_buddy" binding:"required,min=1,max=5"`
	Q4WishMorePeople          int `json:"q4_wish_more_people" binding:"required,min=1,max=5"`
	Q5CoordinatingBarrier     int `json:"q5_coordinating_barrier" binding:"required,min=1,max=5"`
	Q6WorryAwkward            int `json:"q6_worry_awkward" binding:"required,min=1,max=5"`
	Q7ComfortableApproaching  int `json:"q7_comfortable_approaching" binding:"required,min=1,max=5"`
	Q8ComfortableOnline       int `json:"q8_comfortable_online_platforms" binding:"required,min=1,max=5"`
	Q9AvoidAskingAfraidNo     int `json:"q9_avoid_asking_afraid_no" binding:"required,min=1,max=5"`
	Q10FeelAtEase             int `json:"q10_feel_at_ease" binding:"required,min=1,max=5"`
	Q11PressureKeepStudying   int `json:"q11_pressure_keep_studying" binding:"required,min=1,max=5"`
	Q12FeelBelong             int `json:"q12_feel_belong" binding:"required,min=1,max=5"`
	Q13CoreGroupPeers         int `json:"q13_core_group_peers" binding:"required,min=1,max=5"`
	Q14StudentsOpenCollab     int `json:"q14_students_open_collaborating" binding:"required,min=1,max=5"`

	Q15HardestPart   string `json:"q15_hardest_part"`
	Q16BadExperience string `json:"q16_bad_experience"`
}

// SubmitSurvey handles POST /survey/submit
func (h *UserHandler) SubmitSurvey(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req surveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "all fourteen survey answers between 1 and 5 are required"})
		return
	}

	response := &domain.SurveyResponse{
		Q1StudyAlone:              req.Q1StudyAlone,
		Q2EnjoyStudyingWithOthers: req.Q2EnjoyStudyingWithOthers,
		Q3EasilyFindStudyBuddy:    req.Q3EasilyFindStudyBuddy,
		Q4WishMorePeople:          req.Q4WishMorePeople,
		Q5CoordinatingBarrier:     req.Q5CoordinatingBarrier,
		Q6WorryAwkward:            req.Q6WorryAwkward,
		Q7ComfortableApproaching:  req.Q7ComfortableApproaching,
		Q8ComfortableOnline:       req.Q8ComfortableOnline,
		Q9AvoidAskingAfraidNo:     req.Q9AvoidAskingAfraidNo,
		Q10FeelAtEase:             req.Q10FeelAtEase,
		Q11PressureKeepStudying:   req.Q11PressureKeepStudying,
		Q12FeelBelong:             req.Q12FeelBelong,
		Q13CoreGroupPeers:         req.Q13CoreGroupPeers,
		Q14StudentsOpenCollab:     req.Q14StudentsOpenCollab,
		Q15HardestPart:            req.Q15HardestPart,
		Q16BadExperience:          req.Q16BadExperience,
	}

	if err := h.userUseCase.SubmitSurvey(c.Request.Context(), userID, response); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Survey submitted. Thank you!"})
}

// FilterOptions handles GET /filters/options
func (h *UserHandler) FilterOptions(c *gin.Context) {
	genders, majors, err := h.userUseCase.FilterOptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"genders": genders,
		"majors":  majors,
	})
}

// UploadProfilePicture handles POST /user/profile-picture (multipart)
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a file field is required"})
		return
	}
	if fileHeader.Size > maxProfilePictureBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image must be 5MB or smaller"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProfilePictureBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read uploaded file"})
		return
	}

	updated, err := h.userUseCase.UploadProfilePicture(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProfilePicture handles DELETE /user/profile-picture
func (h *UserHandler) DeleteProfilePicture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.userUseCase.DeleteProfilePicture(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type reportRequest struct {
	ReportedUserID int     `json:"reported_user_id" binding:"required"`
	Reason         *string `json:"reason"`
	Context        *string `json:"context"`
}

// Report handles POST /report
func (h *UserHandler) Report(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reported_user_id is required"})
		return
	}

	report, err := h.userUseCase.Report(c.Request.Context(), userID, req.ReportedUserID, req.Reason, req.Context)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Report submitted successfully. Thank you for helping keep Study Buddy safe.",
		"report_id": report.ID,
	})
}
