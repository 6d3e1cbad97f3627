package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"loc8r/src/types"
)

// QueryCache keeps recent nearby-query results in Redis. Entries expire by
// TTL only; writes are not invalidated, so results can be stale for at most
// one TTL. A nil cache is a no-op.
type QueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQueryCache(addr, password string, ttl time.Duration) (*QueryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &QueryCache{client: client, ttl: ttl}, nil
}

func (qc *QueryCache) GetNearby(ctx context.Context, lng, lat float64) ([]types.Location, bool) {
	if qc == nil {
		return nil, false
	}

	cached, err := qc.client.Get(ctx, nearbyKey(lng, lat)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache get failed: %s", err)
		return nil, false
	}

	var locations []types.Location
	if err := json.Unmarshal([]byte(cached), &locations); err != nil {
		return nil, false
	}
	return locations, true
}

func (qc *QueryCache) SetNearby(ctx context.Context, lng, lat float64, locations []types.Location) {
	if qc == nil {
		return
	}

	payload, err := json.Marshal(locations)
	if err != nil {
		return
	}
	if err := qc.client.Set(ctx, nearbyKey(lng, lat), payload, qc.ttl).Err(); err != nil {
		log.Printf("cache set failed: %s", err)
	}
}

func nearbyKey(lng, lat float64) string {
	return fmt.Sprintf("nearby:%.4f:%.4f", lng, lat)
}
