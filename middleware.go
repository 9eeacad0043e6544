package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// getLimiter returns the rate limiter for key (the client IP), creating it on first use.
func (app *App) getLimiter(key string, now time.Time) *rate.Limiter {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()
	if entry, ok := app.LimiterMap[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	if key == "" {
		logWarn("Rate limiter key is empty")
	}
	rps := max(app.RateLimitRPS, 1)
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), max(app.RateLimitBurst, 1))
	app.LimiterMap[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

// pruneLimiters drops limiters idle for longer than idle and returns how many went.
func (app *App) pruneLimiters(now time.Time, idle time.Duration) int {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()
	removed := 0
	for key, entry := range app.LimiterMap {
		if now.Sub(entry.lastSeen) > idle {
			delete(app.LimiterMap, key)
			removed++
		}
	}
	return removed
}

// rateLimitMiddleware enforces per-client rate limiting on state-changing routes.
func (app *App) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !app.getLimiter(c.ClientIP(), time.Now()).Allow() {
			if c.GetHeader("HX-Request") == "true" {
				c.Header("HX-Trigger", "rate-limit-exceeded")
			}
			logWarn("%sRate limit exceeded for %s", requestTag(c.Request.Context()), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down."})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware injects a request ID into the context for each request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}
