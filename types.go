package main

import (
	"sync"
	"time"

	"bloxpace/internal/blocks"

	"golang.org/x/time/rate"
)

type contextKey string

// App holds the server configuration and every live session.
type App struct {
	IsProduction   bool
	Port           string
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	SweepInterval  time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	// RandomSeed seeds every new game from RandomSeed+ordinal when non-zero.
	RandomSeed uint64

	Sessions     map[string]*Session
	SessionMutex sync.RWMutex
	gamesStarted uint64

	LimiterMap   map[string]*limiterEntry
	LimiterMutex sync.Mutex

	StartTime time.Time
}

// Session is one player's game. mu serialises every access to Game.
type Session struct {
	ID             string
	mu             sync.Mutex
	Game           *blocks.Game
	LastAccessTime time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}
