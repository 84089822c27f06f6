package authstate

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"socialfeed/internal/model"
	redisclient "socialfeed/internal/redis"
)

// RedisPersister keeps the serialized user under a single namespaced key.
type RedisPersister struct {
	client *redisclient.Client
	key    string
}

func NewRedisPersister(client *redisclient.Client, namespace string) *RedisPersister {
	return &RedisPersister{
		client: client,
		key:    fmt.Sprintf("%s:auth:user", namespace),
	}
}

// SaveUser stores the user, or clears the key when signed out.
func (p *RedisPersister) SaveUser(ctx context.Context, user *model.SessionUser) error {
	if user == nil {
		if err := p.client.Del(ctx, p.key).Err(); err != nil {
			return fmt.Errorf("clear persisted user: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode persisted user: %w", err)
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("store persisted user: %w", err)
	}
	return nil
}

// LoadUser returns the persisted user, or nil when none is stored.
func (p *RedisPersister) LoadUser(ctx context.Context) (*model.SessionUser, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load persisted user: %w", err)
	}

	var user model.SessionUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode persisted user: %w", err)
	}
	return &user, nil
}
