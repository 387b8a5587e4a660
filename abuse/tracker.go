package abuse

import (
	"context"
	"time"

	"github.com/vimalpatra/todo-backend/docstore"
)

// Record is the persisted per-address state. The address doubles as the
// document id, so each client has at most one record.
type Record struct {
	Address   string `json:"address"`
	FirstSeen int64  `json:"firstSeen"`
	Count     int64  `json:"count"`
}

// Config holds tracker tuning parameters.
type Config struct {
	// Window is how long sightings accumulate before the count resets.
	Window time.Duration
	// Threshold is the highest in-window count that passes unchallenged.
	Threshold int64
}

// Tracker counts sightings per client address in a Redis-backed collection.
type Tracker struct {
	records *docstore.Collection
	config  Config

	now func() time.Time // overridable in tests
}

// New creates a Tracker storing records in the given collection.
func New(records *docstore.Collection, cfg Config) *Tracker {
	return &Tracker{
		records: records,
		config:  cfg,
		now:     time.Now,
	}
}

// NeedsVerification records a sighting of address and reports whether the
// client must pass a verification challenge before proceeding. The address is
// always passed in explicitly so the window-reset path operates on the same
// record it was looked up for.
func (t *Tracker) NeedsVerification(ctx context.Context, address string) (bool, error) {
	var rec Record
	found, err := t.records.FindOne(ctx, docstore.Filter{"_id": address}, &rec)
	if err != nil {
		return false, err
	}

	now := t.now().Unix()

	if !found {
		rec = Record{Address: address, FirstSeen: now, Count: 1}
		return false, t.records.Save(ctx, address, &rec)
	}

	windowElapsed := rec.FirstSeen+int64(t.config.Window.Seconds()) < now
	if windowElapsed {
		// A stale firstSeen would keep the window permanently elapsed, so
		// the reset starts a fresh window as well as a fresh count.
		rec.FirstSeen = now
		rec.Count = 1
		return false, t.records.Save(ctx, address, &rec)
	}

	rec.Count++
	if err := t.records.Save(ctx, address, &rec); err != nil {
		return false, err
	}
	return rec.Count > t.config.Threshold, nil
}
