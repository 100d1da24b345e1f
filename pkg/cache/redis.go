package cache

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/galymzhantore/teachload-api/pkg/config"
)

// Result payloads are small JSON blobs read on the solve path, so the
// client keeps tight timeouts: a slow cache must never cost more than
// re-running the lookup against the in-memory store.
const (
	dialTimeout  = 3 * time.Second
	ioTimeout    = 2 * time.Second
	pingDeadline = 3 * time.Second
)

// NewRedis connects the optional result cache, failing fast when the
// server is unreachable so the caller can fall back to memory only.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingDeadline)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
