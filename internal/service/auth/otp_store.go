package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps one pending code hash per employee number along with the
// number of failed attempts against it.
type OTPStore interface {
	Save(ctx context.Context, employeeNumber, hash string, ttl time.Duration) error
	// Get returns found=false when no code is pending or it has expired.
	Get(ctx context.Context, employeeNumber string) (hash string, attempts int, found bool, err error)
	IncrAttempts(ctx context.Context, employeeNumber string) (int, error)
	Delete(ctx context.Context, employeeNumber string) error
}

type redisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func otpKey(employeeNumber string) string {
	return "otp:" + employeeNumber
}

func (s *redisOTPStore) Save(ctx context.Context, employeeNumber, hash string, ttl time.Duration) error {
	key := otpKey(employeeNumber)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "hash", hash, "attempts", 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *redisOTPStore) Get(ctx context.Context, employeeNumber string) (string, int, bool, error) {
	values, err := s.client.HGetAll(ctx, otpKey(employeeNumber)).Result()
	if err != nil {
		return "", 0, false, err
	}
	hash, ok := values["hash"]
	if !ok {
		return "", 0, false, nil
	}
	attempts, _ := strconv.Atoi(values["attempts"])
	return hash, attempts, true, nil
}

func (s *redisOTPStore) IncrAttempts(ctx context.Context, employeeNumber string) (int, error) {
	n, err := s.client.HIncrBy(ctx, otpKey(employeeNumber), "attempts", 1).Result()
	return int(n), err
}

func (s *redisOTPStore) Delete(ctx context.Context, employeeNumber string) error {
	return s.client.Del(ctx, otpKey(employeeNumber)).Err()
}
