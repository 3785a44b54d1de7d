package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cloudid/pkg/platform/sentinel"
)

// Redis stores login principals as hashes keyed by id, with a username index
// so registration can reuse an existing principal.
type Redis struct {
	client redis.UniversalClient
}

var _ Accounts = (*Redis)(nil)

// NewRedis constructs a Redis-backed account store.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func accountKey(id string) string {
	return "login:account:" + id
}

func usernameKey(username string) string {
	return "login:username:" + username
}

// CreateDisabled provisions a disabled principal, or returns the principal
// already registered for the username.
func (s *Redis) CreateDisabled(ctx context.Context, username string) (Account, error) {
	id := uuid.NewString()

	// Claim the username first; a lost race means the principal exists.
	ok, err := s.client.SetNX(ctx, usernameKey(username), id, 0).Result()
	if err != nil {
		return Account{}, fmt.Errorf("login username claim: %w: %w", sentinel.ErrUnavailable, err)
	}
	if !ok {
		existingID, err := s.client.Get(ctx, usernameKey(username)).Result()
		if err != nil {
			return Account{}, fmt.Errorf("login username read: %w: %w", sentinel.ErrUnavailable, err)
		}
		return s.Find(ctx, existingID)
	}

	account := Account{ID: id, Username: username, Enabled: false}
	if err := s.client.HSet(ctx, accountKey(id),
		"username", username,
		"enabled", "0",
	).Err(); err != nil {
		return Account{}, fmt.Errorf("login account write: %w: %w", sentinel.ErrUnavailable, err)
	}
	return account, nil
}

// SetEnabled flips the enabled flag.
func (s *Redis) SetEnabled(ctx context.Context, id string, enabled bool) error {
	exists, err := s.client.Exists(ctx, accountKey(id)).Result()
	if err != nil {
		return fmt.Errorf("login account read: %w: %w", sentinel.ErrUnavailable, err)
	}
	if exists == 0 {
		return sentinel.ErrNotFound
	}

	value := "0"
	if enabled {
		value = "1"
	}
	if err := s.client.HSet(ctx, accountKey(id), "enabled", value).Err(); err != nil {
		return fmt.Errorf("login account write: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Find returns the principal or sentinel.ErrNotFound.
func (s *Redis) Find(ctx context.Context, id string) (Account, error) {
	values, err := s.client.HGetAll(ctx, accountKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Account{}, sentinel.ErrNotFound
		}
		return Account{}, fmt.Errorf("login account read: %w: %w", sentinel.ErrUnavailable, err)
	}
	if len(values) == 0 {
		return Account{}, sentinel.ErrNotFound
	}
	return Account{
		ID:       id,
		Username: values["username"],
		Enabled:  values["enabled"] == "1",
	}, nil
}

// Delete removes the principal and its username index entry.
func (s *Redis) Delete(ctx context.Context, id string) error {
	account, err := s.Find(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, accountKey(id))
	pipe.Del(ctx, usernameKey(account.Username))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login account delete: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
