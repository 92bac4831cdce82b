package ratelimit

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

// slidingWindowScript prunes, counts and records a hit in one round trip.
// Scores are unix milliseconds. Hits at or before now-window are pruned.
// KEYS[1] = window key
// ARGV[1] = now (ms), ARGV[2] = window (ms), ARGV[3] = limit, ARGV[4] = member
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
    local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
    local oldestScore = now
    if oldest[2] then
        oldestScore = tonumber(oldest[2])
    end
    return {0, count, oldestScore}
end

redis.call("ZADD", key, now, ARGV[4])
redis.call("PEXPIRE", key, window)
return {1, count + 1, 0}
`)

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string

	// Circuit.Enabled false runs every call straight against Redis.
	Circuit resilience.CircuitBreakerConfig
}

// RedisStore is a gate.RateLimitStore shared by every API replica.
type RedisStore struct {
	client  redis.Scripter
	prefix  string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

func NewRedisStore(client redis.Scripter, opts RedisOptions, logger *logging.Logger) *RedisStore {
	if logger == nil {
		logger = logging.Default()
	}
	store := &RedisStore{
		client: client,
		prefix: opts.KeyPrefix,
		logger: logger.Named("ratelimit.redis"),
	}
	if opts.Circuit.Enabled {
		store.breaker = resilience.NewCircuitBreaker(opts.Circuit)
	}
	return store
}

func (s *RedisStore) Hit(ctx context.Context, key string, policy gate.Policy, now time.Time) (gate.Decision, error) {
	if policy.Limit <= 0 {
		return gate.Decision{Allowed: true}, nil
	}

	var reply any
	run := func(ctx context.Context) error {
		var err error
		reply, err = slidingWindowScript.Run(ctx, s.client,
			[]string{s.prefix + key},
			now.UnixMilli(),
			policy.Window.Milliseconds(),
			policy.Limit,
			fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
		).Result()
		return err
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			s.logger.WarnContext(ctx, "redis rate limiter circuit open", "key", key)
		}
		return gate.Decision{}, crerr.Wrapf(err, "redis sliding window %s", key)
	}

	return decisionFromReply(reply, now, policy.Window)
}

func decisionFromReply(reply any, now time.Time, window time.Duration) (gate.Decision, error) {
	values, ok := reply.([]any)
	if !ok || len(values) != 3 {
		return gate.Decision{}, crerr.Newf("unexpected sliding window reply %T", reply)
	}

	nums := make([]int64, len(values))
	for i, v := range values {
		n, ok := v.(int64)
		if !ok {
			return gate.Decision{}, crerr.Newf("unexpected sliding window value %T at %d", v, i)
		}
		nums[i] = n
	}

	if nums[0] == 1 {
		return gate.Decision{Allowed: true, Count: int(nums[1])}, nil
	}
	return gate.Deny(int(nums[1]), time.UnixMilli(nums[2]), now, window), nil
}
