package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("user with this email already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrWrongPassword    = errors.New("incorrect email or password")
	ErrEmailNotVerified = errors.New("email is not verified")
	ErrSetupIncomplete  = errors.New("account setup is not complete")
	ErrSetupComplete    = errors.New("account setup is already complete")

	ErrProfileIncomplete = errors.New("profile is not complete")
	ErrSurveyIncomplete  = errors.New("survey is not complete")
	ErrWrongDesign       = errors.New("feature is not available for this design")
	ErrSelfTarget        = errors.New("cannot target yourself")

	ErrReachOutNotFound = errors.New("connection not found")
	ErrNotParticipant   = errors.New("user is not part of this connection")
	ErrReachOutLimit    = errors.New("daily reach out limit reached")
	ErrAlreadyRated     = errors.New("connection already rated")

	ErrInappropriateText = errors.New("text contains inappropriate content")
)
