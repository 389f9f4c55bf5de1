// Package progress defines the event structures emitted by a pipeline run.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported pipeline stages.
const (
	StageRunStart        Stage = "RUN_START"
	StageSourceIndexed   Stage = "SOURCE_INDEXED"
	StageSourceFetched   Stage = "SOURCE_FETCHED"
	StageArticleEnriched Stage = "ARTICLE_ENRICHED"
	StageArticleDropped  Stage = "ARTICLE_DROPPED"
	StageEditionReady    Stage = "EDITION_READY"
	StageSinkWritten     Stage = "SINK_WRITTEN"
	StageSinkError       Stage = "SINK_ERROR"
	StageRunDone         Stage = "RUN_DONE"
	StageRunError        Stage = "RUN_ERROR"
)

// Event captures a single milestone of pipeline progress.
type Event struct {
	// RunID uniquely identifies a pipeline run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle milestone occurred.
	Stage Stage
	// Source optionally scopes indexing/fetching events to a news source name.
	Source string
	// Sink names the output document for sink events (json, markdown, index).
	Sink string
	// Count carries the number of items the stage handled.
	Count int64
	// Succeeded and Failed carry the enrichment tallies for run completion.
	Succeeded int64
	Failed    int64
	// Dur captures execution latency for completed stages.
	Dur time.Duration
	// Note lets emitters attach low-volume debug context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageEditionReady, StageRunDone, StageRunError,
		StageArticleEnriched, StageArticleDropped:
	case StageSourceIndexed, StageSourceFetched:
		if e.Source == "" {
			return errors.New("source stage requires source")
		}
	case StageSinkWritten, StageSinkError:
		if e.Sink == "" {
			return errors.New("sink stage requires sink")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
