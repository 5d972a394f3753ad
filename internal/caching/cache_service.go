package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"buildsite/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Public snapshot caching
	GetSnapshot(ctx context.Context, landingID uuid.UUID) (*models.PublicSnapshot, error)
	SetSnapshot(ctx context.Context, landingID uuid.UUID, snapshot *models.PublicSnapshot, ttl time.Duration) error
	DeleteSnapshot(ctx context.Context, landingID uuid.UUID) error

	// Domain -> landing lookup caching for the public read path
	GetDomainLanding(ctx context.Context, domain string) (uuid.UUID, error)
	SetDomainLanding(ctx context.Context, domain string, landingID uuid.UUID, ttl time.Duration) error
	DeleteDomainLanding(ctx context.Context, domain string) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port style addresses too
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetSnapshot(ctx context.Context, landingID uuid.UUID) (*models.PublicSnapshot, error) {
	key := fmt.Sprintf("buildsite:snapshot:%s", landingID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot models.PublicSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetSnapshot(ctx context.Context, landingID uuid.UUID, snapshot *models.PublicSnapshot, ttl time.Duration) error {
	key := fmt.Sprintf("buildsite:snapshot:%s", landingID.String())
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteSnapshot(ctx context.Context, landingID uuid.UUID) error {
	key := fmt.Sprintf("buildsite:snapshot:%s", landingID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDomainLanding(ctx context.Context, domain string) (uuid.UUID, error) {
	key := fmt.Sprintf("buildsite:domain:%s", domain)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, nil // cache miss
		}
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}

func (r *redisCacheService) SetDomainLanding(ctx context.Context, domain string, landingID uuid.UUID, ttl time.Duration) error {
	key := fmt.Sprintf("buildsite:domain:%s", domain)
	return r.client.Set(ctx, key, landingID.String(), ttl).Err()
}

func (r *redisCacheService) DeleteDomainLanding(ctx context.Context, domain string) error {
	key := fmt.Sprintf("buildsite:domain:%s", domain)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
