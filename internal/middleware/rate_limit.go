package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const rateLimitRedisTimeout = 500 * time.Millisecond

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit counts a rejected request and reports it to New
// Relic when the agent is running.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	rateLimitHits.WithLabelValues(endpoint).Inc()

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}

// Uploads limits how many image uploads one caller may start per window.
// Callers are identified by user id, falling back to the client IP.
func (r *RateLimitMiddleware) Uploads() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit

	store := NewRedisRateLimiterStore(
		r.server.Redis,
		"uploads",
		cfg.UploadsPerWindow,
		time.Duration(cfg.WindowSeconds)*time.Second,
		r.server.Logger,
	)

	return r.limiter(store)
}

func (r *RateLimitMiddleware) limiter(store middleware.RateLimiterStore) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if userID := GetUserID(c); userID != "" {
				return "user:" + userID, nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("identifier", identifier).Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many uploads, please try again later")
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify the caller", false, nil, nil, nil)
		},
	})
}

// RedisRateLimiterStore is a fixed-window counter shared by every
// instance. When redis is unreachable requests are allowed.
type RedisRateLimiterStore struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRedisRateLimiterStore(client *redis.Client, name string, limit int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client: client,
		prefix: "ratelimit:" + name,
		limit:  limit,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	if s.client == nil {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), rateLimitRedisTimeout)
	defer cancel()

	windowStart := s.now().Truncate(s.window).Unix()
	key := fmt.Sprintf("%s:%s:%d", s.prefix, identifier, windowStart)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= int64(s.limit), nil
}
