package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

// OTPRepository keeps one OTP state per session.
type OTPRepository interface {
	Save(ctx context.Context, sessionID string, state *models.OTPState, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.OTPState, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisOTPRepository struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisClient connects with short timeouts; callers check Ping.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

func NewOTPRepository(client *redis.Client, logger zerolog.Logger) OTPRepository {
	return &redisOTPRepository{
		client: client,
		logger: logger,
	}
}

func otpKey(sessionID string) string {
	return "otp:" + sessionID
}

func (r *redisOTPRepository) Save(ctx context.Context, sessionID string, state *models.OTPState, ttl time.Duration) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal otp state: %w", err)
	}
	if err := r.client.Set(ctx, otpKey(sessionID), body, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp state: %w", err)
	}
	return nil
}

func (r *redisOTPRepository) Get(ctx context.Context, sessionID string) (*models.OTPState, error) {
	body, err := r.client.Get(ctx, otpKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load otp state: %w", err)
	}

	var state models.OTPState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to decode otp state: %w", err)
	}
	return &state, nil
}

func (r *redisOTPRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, otpKey(sessionID)).Err()
}
