package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ProvideRedis connects the client the invitation janitor leases its
// single-flight lock on. Connectivity is verified up front with the same
// 5s budget as the Postgres provider.
func ProvideRedis(config *Config) (*redis.Client, error) {
	options, err := redis.ParseURL(config.RedisUrl)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return client, nil
}
