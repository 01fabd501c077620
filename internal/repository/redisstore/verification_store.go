package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

const codeKeyPrefix = "verify_code:"

type verificationStore struct {
	client *redis.Client
}

func NewVerificationStore(client *redis.Client) repository.VerificationStore {
	return &verificationStore{client: client}
}

func (s *verificationStore) Save(ctx context.Context, code string, userID int, action string, ttl time.Duration) error {
	value := fmt.Sprintf("%d:%s", userID, action)
	if err := s.client.Set(ctx, codeKeyPrefix+code, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}
	return nil
}

func (s *verificationStore) Consume(ctx context.Context, code string) (int, string, error) {
	value, err := s.client.GetDel(ctx, codeKeyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, "", domain.ErrInvalidToken
		}
		return 0, "", fmt.Errorf("failed to consume verification code: %w", err)
	}

	userPart, action, ok := strings.Cut(value, ":")
	if !ok {
		return 0, "", domain.ErrInvalidToken
	}
	userID, err := strconv.Atoi(userPart)
	if err != nil {
		return 0, "", domain.ErrInvalidToken
	}
	return userID, action, nil
}
