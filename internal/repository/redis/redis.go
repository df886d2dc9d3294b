// Package redis stores each collection under a single string key.
package redis

import (
	"context"
	"errors"
	"sort"

	"alcyxob/group-fitness/internal/repository"

	"github.com/go-redis/redis/v8"
)

const defaultPrefix = "fitness"

// Backend keeps collection JSON under "<prefix>:<collection>".
type Backend struct {
	client *redis.Client
	prefix string
}

var (
	_ repository.Backend    = (*Backend)(nil)
	_ repository.BatchSaver = (*Backend)(nil)
)

// New wraps an existing client. An empty prefix falls back to "fitness".
func New(client *redis.Client, prefix string) *Backend {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Backend{client: client, prefix: prefix}
}

// Connect dials Redis and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Key returns the Redis key used for a collection.
func (b *Backend) Key(collection string) string {
	return b.prefix + ":" + collection
}

func (b *Backend) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.Key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Backend) Save(ctx context.Context, collection string, data []byte) error {
	return b.client.Set(ctx, b.Key(collection), string(data), 0).Err()
}

// SaveBatch writes all collections inside MULTI/EXEC.
func (b *Backend) SaveBatch(ctx context.Context, data map[string][]byte) error {
	collections := make([]string, 0, len(data))
	for collection := range data {
		collections = append(collections, collection)
	}
	sort.Strings(collections)

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, collection := range collections {
			pipe.Set(ctx, b.Key(collection), string(data[collection]), 0)
		}
		return nil
	})
	return err
}

// Close releases the client's connections.
func (b *Backend) Close(_ context.Context) error {
	return b.client.Close()
}
