package sessionclock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/wordcrush/internal/dependencies/clock"
	"github.com/mcoot/wordcrush/internal/model"
)

// Start returns a fresh running session
func Start(teamName string, durationSeconds int) model.Session {
	return model.Session{
		TeamName:      teamName,
		TimeRemaining: durationSeconds,
		Active:        true,
	}
}

// Tick counts down one second. It returns true only on the tick that
// expires the session; ticks on an expired session do nothing.
func Tick(session *model.Session) bool {
	if !session.Active {
		return false
	}
	if session.TimeRemaining > 0 {
		session.TimeRemaining--
	}
	if session.TimeRemaining == 0 {
		session.Active = false
		return true
	}
	return false
}

// Expire ends the session immediately.
// Returns false if it had already ended.
func Expire(session *model.Session) bool {
	if !session.Active {
		return false
	}
	session.TimeRemaining = 0
	session.Active = false
	return true
}

// Display formats seconds as m:ss
func Display(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Runner drives a tick callback once per interval
type Runner struct {
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a Runner ticking every interval
func NewRunner(c clock.Clock, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		clock:    c,
		interval: interval,
		logger:   logger,
	}
}

// Run calls tick on every interval until tick returns false or ctx is done
func (r *Runner) Run(ctx context.Context, tick func(ctx context.Context) bool) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("session clock cancelled")
			return
		case <-ticker.C():
			if !tick(ctx) {
				r.logger.Debug("session clock stopped")
				return
			}
		}
	}
}
