package assets

import (
	"context"
	"fmt"
	"time"
)

// StaticLoader succeeds for every id except those listed in Fail. It has no
// files behind it and is used for headless runs and tests.
type StaticLoader struct {
	Fail  map[string]bool
	Delay time.Duration // Simulated latency
}

// Load implements Loader.
func (l *StaticLoader) Load(ctx context.Context, id string) (*Model, error) {
	if l.Delay > 0 {
		timer := time.NewTimer(l.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.Fail[id] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	return &Model{ID: id, Format: FormatStatic, Version: "2.0"}, nil
}
