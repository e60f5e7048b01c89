// Package rangecache keeps the appointments a calendar view has
// already fetched, keyed by inclusive date ranges, so panning the
// calendar never refetches loaded days and never races a stale
// response past a fresh one.
package rangecache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// Fetcher is the slice of the appointment store the cache needs.
type Fetcher interface {
	FetchRange(
		ctx context.Context,
		atelierID uint,
		start timeutil.Date,
		end timeutil.Date,
	) ([]models.Appointment, error)
}

// FetchError wraps a collaborator failure for one specific range
// request. Prefetch failures never carry it past the log.
type FetchError struct {
	AtelierID uint
	Range     DateRange
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch atelier %d range %s: %v", e.AtelierID, e.Range, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type entry struct {
	rng          DateRange
	appointments []models.Appointment
	loadedAt     time.Time
	requestID    uint64
}

// Cache holds one shop session's loaded ranges. All state is behind
// one mutex: the host is multi-threaded, and the at-most-one-in-
// flight-per-range invariant needs per-shop serialization.
type Cache struct {
	atelierID uint
	fetch     Fetcher
	log       *zap.Logger

	mu      sync.Mutex
	entries []entry

	// nextRequestID orders loads; minValidID rises on invalidation so
	// results from loads started before it are discarded on arrival.
	nextRequestID uint64
	minValidID    uint64

	group singleflight.Group
}

func New(atelierID uint, fetch Fetcher, log *zap.Logger) *Cache {
	return &Cache{
		atelierID: atelierID,
		fetch:     fetch,
		log:       log,
	}
}

// IsRangeLoaded reports whether every date in r is covered by a
// prior successful load.
func (c *Cache) IsRangeLoaded(r DateRange) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coveredLocked(r)
}

func (c *Cache) coveredLocked(r DateRange) bool {
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		covered := false
		for _, e := range c.entries {
			if e.rng.Contains(d) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// GetForRange returns the cached appointments whose date falls in r,
// deduplicated by id across overlapping entries and sorted by date
// and start time. Unloaded days simply contribute nothing; callers
// wanting a guarantee go through Load first.
func (c *Cache) GetForRange(r DateRange) []models.Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[uint]bool)
	out := []models.Appointment{}
	for _, e := range c.entries {
		if !e.rng.Overlaps(r) {
			continue
		}
		for _, ap := range e.appointments {
			if seen[ap.ID] {
				continue
			}
			d, err := timeutil.ParseDate(ap.Date)
			if err != nil || !r.Contains(d) {
				continue
			}
			seen[ap.ID] = true
			out = append(out, ap)
		}
	}

	// ISO date and HH:MM strings order lexicographically.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Load fetches r unless it is already covered. Concurrent callers
// for the same range share a single in-flight fetch; the error of a
// user-triggered load belongs to that caller.
func (c *Cache) Load(ctx context.Context, r DateRange) error {
	c.mu.Lock()
	if c.coveredLocked(r) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	_, err, _ := c.group.Do(r.Key(), func() (any, error) {
		c.mu.Lock()
		// Re-check under the lock: a shared flight may have landed
		// between the fast path and here.
		if c.coveredLocked(r) {
			c.mu.Unlock()
			return nil, nil
		}
		c.nextRequestID++
		requestID := c.nextRequestID
		c.mu.Unlock()

		appointments, err := c.fetch.FetchRange(ctx, c.atelierID, r.Start, r.End)
		if err != nil {
			return nil, &FetchError{AtelierID: c.atelierID, Range: r, Err: err}
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.storeLocked(r, appointments, requestID)
		return nil, nil
	})
	return err
}

// storeLocked installs a completed load, enforcing
// last-requested-wins: a result ordered before an already-stored
// overlapping entry, or before the latest invalidation, is stale and
// dropped.
func (c *Cache) storeLocked(r DateRange, appointments []models.Appointment, requestID uint64) {
	if requestID <= c.minValidID {
		return
	}
	for _, e := range c.entries {
		if e.rng.Overlaps(r) && e.requestID > requestID {
			return
		}
	}

	// Supersede older overlapping entries.
	kept := c.entries[:0]
	for _, e := range c.entries {
		if !e.rng.Overlaps(r) {
			kept = append(kept, e)
		}
	}
	c.entries = append(kept, entry{
		rng:          r,
		appointments: appointments,
		loadedAt:     time.Now(),
		requestID:    requestID,
	})
}

// PrefetchAdjacent speculatively loads the ranges a user panning the
// calendar is likely to hit next. Best effort: failures are logged
// and swallowed, and the loads outlive the triggering request.
func (c *Cache) PrefetchAdjacent(current DateRange, view View) {
	for _, neighbor := range adjacentRanges(current, view) {
		go func(n DateRange) {
			if err := c.Load(context.Background(), n); err != nil {
				c.log.Debug("prefetch failed",
					zap.Uint("atelier_id", c.atelierID),
					zap.String("range", n.String()),
					zap.Error(err),
				)
			}
		}(neighbor)
	}
}

// Invalidate drops cached entries so the next read reloads. A nil
// range drops everything. Results of loads already in flight are
// also discarded on arrival: a write just changed what they were
// reading.
func (c *Cache) Invalidate(r *DateRange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.minValidID = c.nextRequestID

	if r == nil {
		c.entries = nil
		return
	}
	kept := c.entries[:0]
	for _, e := range c.entries {
		if !e.rng.Overlaps(*r) {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}
