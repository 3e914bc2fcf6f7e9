package redis_client

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New returns a Redis client for the cross-instance fan-out bridge.
// The pool stays small: the bridge holds one subscription per room
// plus the publish path.
func New(host string, port uint16) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(int(port))),
		PoolSize: 32,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		zap.L().Error("redis_connect", zap.Error(err))
		_ = rc.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return rc, nil
}
