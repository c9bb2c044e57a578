package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/model"
	"github.com/veredas-labs/trilha_api/services"
	"github.com/veredas-labs/trilha_api/shared"
)

type rateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	BlockTime    time.Duration
	Description  string
}

type RateLimitMiddleware struct {
	context.DefaultService

	configs map[string]*rateLimitConfig
	mutex   sync.RWMutex
	sqlSvc  *services.SqlService
}

const RATE_LIMIT_MIDDLEWARE_SVC = "rate_limit"

func (svc *RateLimitMiddleware) Id() string {
	return RATE_LIMIT_MIDDLEWARE_SVC
}

func (svc *RateLimitMiddleware) Configure(ctx *context.Context) error {
	svc.sqlSvc = ctx.Service(services.SQL_SVC).(*services.SqlService)

	svc.configs = make(map[string]*rateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitMiddleware) Start() error {
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitMiddleware) initDefaultConfigs() {
	svc.configs = map[string]*rateLimitConfig{
		// Event ingestion, keyed per user
		"track_event": {
			EndpointType: "track_event",
			MaxRequests:  600,
			WindowSize:   time.Hour,
			BlockTime:    time.Minute * 30,
			Description:  "Domain event ingestion rate limit",
		},

		// Activity recording, keyed per user
		"record_activity": {
			EndpointType: "record_activity",
			MaxRequests:  240,
			WindowSize:   time.Hour,
			BlockTime:    time.Minute * 30,
			Description:  "Activity recording rate limit",
		},

		// General API calls per IP
		"api_general": {
			EndpointType: "api_general",
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "General API rate limit per IP",
		},
	}
}

func (svc *RateLimitMiddleware) IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists {
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}, nil
	}

	now := time.Now()
	windowStart := now.Add(-config.WindowSize)

	rateLimit, err := svc.sqlSvc.GetRateLimit(identifier, endpointType)
	if err != nil {
		return false, nil, err
	}

	if rateLimit != nil && rateLimit.BlockedUntil != nil && now.Before(*rateLimit.BlockedUntil) {
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    rateLimit.BlockedUntil,
			BlockedUntil: rateLimit.BlockedUntil,
		}, nil
	}

	// New identifier or expired window starts a fresh one
	if rateLimit == nil || rateLimit.WindowStart.Before(windowStart) {
		rateLimit = &model.RateLimit{
			Identifier:   identifier,
			EndpointType: endpointType,
			RequestCount: 1,
			WindowStart:  now,
		}

		if err := svc.sqlSvc.SaveRateLimit(rateLimit); err != nil {
			return false, nil, err
		}

		resetTime := now.Add(config.WindowSize)
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: config.MaxRequests - 1,
			ResetTime: &resetTime,
		}, nil
	}

	if rateLimit.RequestCount >= config.MaxRequests {
		blockedUntil := now.Add(config.BlockTime)
		rateLimit.BlockedUntil = &blockedUntil
		rateLimit.UpdatedAt = now

		if err := svc.sqlSvc.UpdateRateLimit(rateLimit); err != nil {
			return false, nil, err
		}

		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	rateLimit.RequestCount++
	rateLimit.UpdatedAt = now

	if err := svc.sqlSvc.UpdateRateLimit(rateLimit); err != nil {
		return false, nil, err
	}

	resetTime := rateLimit.WindowStart.Add(config.WindowSize)
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: config.MaxRequests - rateLimit.RequestCount,
		ResetTime: &resetTime,
	}, nil
}

// IPRateLimit applies the general per-IP limit. Errors never block the
// request; the limiter fails open.
func (svc *RateLimitMiddleware) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, info, err := svc.IsAllowed(c.IP(), "api_general")
		if err != nil {
			log.WithError(err).WithField("ip", c.IP()).Warn("Rate limit check failed")
			return c.Next()
		}

		svc.setHeaders(c, info)
		if !allowed {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Rate limit exceeded", info)
		}

		return c.Next()
	}
}

// UserRateLimit applies a per-user limit for one endpoint type. It must
// run after RequiredAuth.
func (svc *RateLimitMiddleware) UserRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(shared.UserID).(string)
		if userID == "" {
			return c.Next()
		}

		allowed, info, err := svc.IsAllowed(userID, endpointType)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Rate limit check failed")
			return c.Next()
		}

		svc.setHeaders(c, info)
		if !allowed {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Rate limit exceeded", info)
		}

		return c.Next()
	}
}

func (svc *RateLimitMiddleware) setHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
	if info.BlockedUntil != nil {
		c.Set("Retry-After", strconv.FormatInt(info.BlockedUntil.Unix(), 10))
	}
}
