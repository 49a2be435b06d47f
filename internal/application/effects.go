package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const effectTimeout = 15 * time.Second

// Effects runs best-effort side effects (host notices, analytics). Their
// failures are logged and never reach the caller of the primary action.
type Effects struct {
	log zerolog.Logger
	wg  sync.WaitGroup
}

func NewEffects(log zerolog.Logger) *Effects {
	return &Effects{log: log.With().Str("component", "effects").Logger()}
}

// Go runs fn in the background, detached from ctx cancellation but keeping
// its values.
func (e *Effects) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), effectTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			e.log.Warn().Err(err).Str("effect", name).Msg("side effect failed")
			return
		}
		e.log.Debug().Str("effect", name).Msg("side effect done")
	}()
}

// Wait blocks until every started effect has finished.
func (e *Effects) Wait() {
	e.wg.Wait()
}
