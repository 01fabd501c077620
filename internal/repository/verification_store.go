package repository

import (
	"context"
	"time"
)

// Verification code actions.
const (
	VerifyActionVerify = "verify"
	VerifyActionReject = "reject"
)

// VerificationStore holds short-lived email verification codes. Codes
// expire on their own (the Redis implementation uses key TTLs) and are
// single-use: Consume removes the code as it resolves it.
type VerificationStore interface {
	Save(ctx context.Context, code string, userID int, action string, ttl time.Duration) error
	Consume(ctx context.Context, code string) (userID int, action string, err error)
}
