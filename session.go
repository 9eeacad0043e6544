package main

import (
	"context"
	"net/http"
	"time"

	"bloxpace/internal/blocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
		logInfo("%sCreated new session: %s", requestTag(c.Request.Context()), sessionID)
	}
	return sessionID
}

// getSession returns the session for sessionID, starting a fresh game when
// the session is unknown or has expired.
func (app *App) getSession(ctx context.Context, sessionID string) *Session {
	now := time.Now()

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if sess, ok := app.Sessions[sessionID]; ok {
		if now.Sub(sess.LastAccessTime) <= app.SessionTimeout {
			sess.LastAccessTime = now
			return sess
		}
		logInfo("%sSession %s expired, starting over", requestTag(ctx), sessionID)
	}

	sess := &Session{
		ID:             sessionID,
		Game:           blocks.NewGame(app.newSource()),
		LastAccessTime: now,
	}
	app.Sessions[sessionID] = sess
	logInfo("%sCreated new game for session: %s", requestTag(ctx), sessionID)
	return sess
}

// newSource returns the random source for the next game. Must be called
// with SessionMutex held.
func (app *App) newSource() blocks.Source {
	app.gamesStarted++
	if app.RandomSeed == 0 {
		return blocks.NewSource()
	}
	return blocks.NewRandom(app.RandomSeed + app.gamesStarted - 1)
}

// sessionCount returns the number of live sessions.
func (app *App) sessionCount() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.Sessions)
}

// cleanupExpiredSessions drops sessions idle for longer than SessionTimeout.
func (app *App) cleanupExpiredSessions(now time.Time) int {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	removed := 0
	for id, sess := range app.Sessions {
		if now.Sub(sess.LastAccessTime) > app.SessionTimeout {
			delete(app.Sessions, id)
			removed++
		}
	}
	return removed
}

// startSessionSweeper removes expired sessions and idle rate limiters every
// SweepInterval until ctx is cancelled.
func (app *App) startSessionSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.SweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				sessions := app.cleanupExpiredSessions(now)
				limiters := app.pruneLimiters(now, app.SessionTimeout)
				if sessions > 0 || limiters > 0 {
					logInfo("Swept %d expired session%s and %d idle limiter%s",
						sessions, plural(sessions), limiters, plural(limiters))
				}
			}
		}
	}()
}
