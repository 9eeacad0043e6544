package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bloxpace/internal/types"

	"github.com/gin-gonic/gin"
)

// homeHandler renders the full page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sess := app.getSession(ctx, app.getOrCreateSession(c))
	view, _ := app.applyCommand(ctx, sess, types.CommandMessage{Type: CommandState})
	app.renderPage(c, view, "")
}

// gameStateHandler renders the board as an HTML fragment.
func (app *App) gameStateHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sess := app.getSession(ctx, app.getOrCreateSession(c))
	view, _ := app.applyCommand(ctx, sess, types.CommandMessage{Type: CommandState})
	c.HTML(http.StatusOK, "game-board", gin.H{"game": view})
}

// formCommandHandler handles the HTML form posts. HTMX requests get the
// board fragment back, plain form posts get the full page.
func (app *App) formCommandHandler(cmdType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := app.getSession(ctx, app.getOrCreateSession(c))
		isHTMX := c.GetHeader("HX-Request") == "true"

		cmd, err := formCommand(c, cmdType)
		var view types.GameView
		if err != nil {
			view, _ = app.applyCommand(ctx, sess, types.CommandMessage{Type: CommandState})
		} else {
			view, err = app.applyCommand(ctx, sess, cmd)
		}

		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		switch {
		case isHTMX:
			c.HTML(http.StatusOK, "game-board", gin.H{"game": view, "error": errMsg})
		case cmdType == CommandRestart && err == nil:
			c.Redirect(http.StatusSeeOther, RouteHome)
		default:
			app.renderPage(c, view, errMsg)
		}
	}
}

// formCommand reads the integer form fields a command needs.
func formCommand(c *gin.Context, cmdType string) (types.CommandMessage, error) {
	cmd := types.CommandMessage{Type: cmdType}
	var err error
	switch cmdType {
	case CommandSelect:
		cmd.Slot, err = formInt(c, "slot")
	case CommandPlace:
		if cmd.X, err = formInt(c, "x"); err == nil {
			cmd.Y, err = formInt(c, "y")
		}
	}
	return cmd, err
}

func formInt(c *gin.Context, key string) (*int, error) {
	n, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		logWarn("%sInvalid form value %s=%q", requestTag(c.Request.Context()), key, c.PostForm(key))
		return nil, errBadRequest
	}
	return &n, nil
}

func (app *App) renderPage(c *gin.Context, view types.GameView, errMsg string) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": pageTitle,
		"game":  view,
		"error": errMsg,
	})
}

// apiStateHandler returns the current game as JSON.
func (app *App) apiStateHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sess := app.getSession(ctx, app.getOrCreateSession(c))
	view, _ := app.applyCommand(ctx, sess, types.CommandMessage{Type: CommandState})
	c.JSON(http.StatusOK, view)
}

// apiCommandHandler runs a JSON command. Rejected commands answer 400 for
// malformed input and 409 for moves the game refuses, with the unchanged
// game alongside the error.
func (app *App) apiCommandHandler(cmdType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := app.getSession(ctx, app.getOrCreateSession(c))

		var cmd types.CommandMessage
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&cmd); err != nil {
				logWarn("%sBad %s body: %v", requestTag(ctx), cmdType, err)
				c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
				return
			}
		}
		cmd.Type = cmdType

		view, err := app.applyCommand(ctx, sess, cmd)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error(), "state": view})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func statusForError(err error) int {
	if errors.Is(err, errBadRequest) || errors.Is(err, errUnknownCommand) {
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       app.envName(),
		"sessions":  app.sessionCount(),
		"uptime":    formatUptime(uptime),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
