package news

import (
	"context"
	"time"
)

// Asker sends a text payload to the generation backend and returns the raw
// response text. Implementations may fail transiently; decorators add retry.
type Asker interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Clock returns the current local time (useful for testing).
type Clock interface {
	Now() time.Time
}
