package rangecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int

	fetchFn func(ctx context.Context, atelierID uint, start, end timeutil.Date) ([]models.Appointment, error)
}

func (f *fakeFetcher) FetchRange(
	ctx context.Context,
	atelierID uint,
	start timeutil.Date,
	end timeutil.Date,
) ([]models.Appointment, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fetchFn != nil {
		return f.fetchFn(ctx, atelierID, start, end)
	}
	return nil, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func mustDate(t *testing.T, s string) timeutil.Date {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func rng(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := NewDateRange(mustDate(t, start), mustDate(t, end))
	if err != nil {
		t.Fatalf("bad test range %s..%s: %v", start, end, err)
	}
	return r
}

func ap(id uint, date, start, end string) models.Appointment {
	a := models.Appointment{Date: date, StartTime: start, EndTime: end, Status: "confirmed"}
	a.ID = id
	return a
}

func TestNewDateRange_RejectsInverted(t *testing.T) {
	_, err := NewDateRange(mustDate(t, "2025-03-12"), mustDate(t, "2025-03-10"))
	if err == nil {
		t.Fatal("want error for inverted range")
	}
}

func TestLoad_CoveredRangeDoesNotRefetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := New(1, fetcher, zap.NewNop())
	week := rng(t, "2025-03-10", "2025-03-16")

	if cache.IsRangeLoaded(week) {
		t.Fatal("nothing loaded yet")
	}
	if err := cache.Load(context.Background(), week); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cache.IsRangeLoaded(week) {
		t.Fatal("range must be loaded")
	}

	// The middle days are covered too.
	if err := cache.Load(context.Background(), rng(t, "2025-03-11", "2025-03-12")); err != nil {
		t.Fatalf("load subrange: %v", err)
	}
	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("fetch called %d times, want 1", got)
	}
}

func TestLoad_ConcurrentCallersShareOneFetch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fetcher := &fakeFetcher{
		fetchFn: func(context.Context, uint, timeutil.Date, timeutil.Date) ([]models.Appointment, error) {
			close(entered)
			<-release
			return nil, nil
		},
	}
	cache := New(1, fetcher, zap.NewNop())
	week := rng(t, "2025-03-10", "2025-03-16")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := cache.Load(context.Background(), week); err != nil {
			t.Errorf("first load: %v", err)
		}
	}()

	<-entered
	go func() {
		defer wg.Done()
		// Either joins the in-flight fetch or finds the range covered.
		if err := cache.Load(context.Background(), week); err != nil {
			t.Errorf("second load: %v", err)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("fetch called %d times, want 1", got)
	}
}

func TestGetForRange_FiltersAndSorts(t *testing.T) {
	fetcher := &fakeFetcher{
		fetchFn: func(_ context.Context, _ uint, _, _ timeutil.Date) ([]models.Appointment, error) {
			return []models.Appointment{
				ap(3, "2025-03-12", "09:00", "10:00"),
				ap(1, "2025-03-10", "14:00", "15:00"),
				ap(2, "2025-03-10", "09:30", "10:30"),
				ap(4, "2025-03-14", "11:00", "12:00"),
			}, nil
		},
	}
	cache := New(1, fetcher, zap.NewNop())
	week := rng(t, "2025-03-10", "2025-03-16")

	if err := cache.Load(context.Background(), week); err != nil {
		t.Fatalf("load: %v", err)
	}

	got := cache.GetForRange(rng(t, "2025-03-10", "2025-03-12"))
	if len(got) != 3 {
		t.Fatalf("got %d appointments, want 3", len(got))
	}
	wantOrder := []uint{2, 1, 3}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("order[%d] = %d, want %d", i, got[i].ID, want)
		}
	}

	// Days never loaded contribute nothing.
	if extra := cache.GetForRange(rng(t, "2025-04-01", "2025-04-02")); len(extra) != 0 {
		t.Fatalf("unloaded range returned %d appointments", len(extra))
	}
}

func TestInvalidate_ForcesReload(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := New(1, fetcher, zap.NewNop())
	week := rng(t, "2025-03-10", "2025-03-16")

	if err := cache.Load(context.Background(), week); err != nil {
		t.Fatalf("load: %v", err)
	}
	cache.Invalidate(nil)
	if cache.IsRangeLoaded(week) {
		t.Fatal("range must not be loaded after invalidation")
	}
	if err := cache.Load(context.Background(), week); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := fetcher.callCount(); got != 2 {
		t.Fatalf("fetch called %d times, want 2", got)
	}
}

func TestInvalidate_RangeOnlyDropsOverlap(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := New(1, fetcher, zap.NewNop())
	first := rng(t, "2025-03-10", "2025-03-11")
	second := rng(t, "2025-03-13", "2025-03-14")

	if err := cache.Load(context.Background(), first); err != nil {
		t.Fatalf("load first: %v", err)
	}
	if err := cache.Load(context.Background(), second); err != nil {
		t.Fatalf("load second: %v", err)
	}

	cache.Invalidate(&DateRange{Start: mustDate(t, "2025-03-13"), End: mustDate(t, "2025-03-13")})

	if !cache.IsRangeLoaded(first) {
		t.Fatal("untouched range must stay loaded")
	}
	if cache.IsRangeLoaded(second) {
		t.Fatal("overlapping range must be dropped")
	}
}

func TestLoad_StaleOverlappingResultDiscarded(t *testing.T) {
	// Assigned before any load starts; the fetcher closure keys off
	// the requested start date.
	var first, second DateRange

	entered := make(chan struct{})
	release := make(chan struct{})
	fetcher := &fakeFetcher{
		fetchFn: func(_ context.Context, _ uint, start, _ timeutil.Date) ([]models.Appointment, error) {
			if start == first.Start {
				close(entered)
				<-release
				return []models.Appointment{ap(1, "2025-03-11", "09:00", "10:00")}, nil
			}
			return []models.Appointment{ap(2, "2025-03-14", "10:00", "11:00")}, nil
		},
	}
	cache := New(1, fetcher, zap.NewNop())
	first = rng(t, "2025-03-10", "2025-03-16")
	second = rng(t, "2025-03-14", "2025-03-20")

	// The first-requested load stalls at the fetcher.
	done := make(chan error, 1)
	go func() {
		done <- cache.Load(context.Background(), first)
	}()
	<-entered

	// An overlapping load requested later lands first.
	if err := cache.Load(context.Background(), second); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !cache.IsRangeLoaded(second) {
		t.Fatal("second range must be loaded")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}

	// The slower response was requested earlier: newer overlapping
	// data wins and the stale result never lands.
	if cache.IsRangeLoaded(first) {
		t.Fatal("stale overlapping result must be discarded")
	}
	if got := cache.GetForRange(rng(t, "2025-03-11", "2025-03-11")); len(got) != 0 {
		t.Fatalf("stale appointments served: %d", len(got))
	}
	if got := cache.GetForRange(second); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("newer appointments lost: %v", got)
	}
	if !cache.IsRangeLoaded(second) {
		t.Fatal("newer range must stay loaded")
	}
}

func TestInvalidate_DiscardsInFlightResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fetcher := &fakeFetcher{
		fetchFn: func(context.Context, uint, timeutil.Date, timeutil.Date) ([]models.Appointment, error) {
			close(entered)
			<-release
			return []models.Appointment{ap(1, "2025-03-10", "09:00", "10:00")}, nil
		},
	}
	cache := New(1, fetcher, zap.NewNop())
	day := rng(t, "2025-03-10", "2025-03-10")

	done := make(chan error, 1)
	go func() {
		done <- cache.Load(context.Background(), day)
	}()

	<-entered
	// A write happened while the fetch was out.
	cache.Invalidate(nil)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}

	if cache.IsRangeLoaded(day) {
		t.Fatal("result requested before invalidation must be discarded")
	}
	if got := cache.GetForRange(day); len(got) != 0 {
		t.Fatalf("stale appointments served: %d", len(got))
	}
}

func TestLoad_WrapsFetchFailure(t *testing.T) {
	sentinel := errors.New("connection refused")
	fetcher := &fakeFetcher{
		fetchFn: func(context.Context, uint, timeutil.Date, timeutil.Date) ([]models.Appointment, error) {
			return nil, sentinel
		},
	}
	cache := New(7, fetcher, zap.NewNop())
	day := rng(t, "2025-03-10", "2025-03-10")

	err := cache.Load(context.Background(), day)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FetchError, got %v", err)
	}
	if fe.AtelierID != 7 {
		t.Fatalf("FetchError atelier = %d", fe.AtelierID)
	}
	if !errors.Is(err, sentinel) {
		t.Fatal("FetchError must unwrap to the cause")
	}
	if cache.IsRangeLoaded(day) {
		t.Fatal("failed load must not mark the range loaded")
	}
}

func TestAdjacentRanges(t *testing.T) {
	week := rng(t, "2025-03-10", "2025-03-16")
	got := adjacentRanges(week, ViewWeek)
	if len(got) != 2 {
		t.Fatalf("got %d neighbors", len(got))
	}
	if got[0].Key() != "2025-03-03..2025-03-09" {
		t.Fatalf("previous week = %s", got[0].Key())
	}
	if got[1].Key() != "2025-03-17..2025-03-23" {
		t.Fatalf("next week = %s", got[1].Key())
	}

	march := rng(t, "2025-03-01", "2025-03-31")
	got = adjacentRanges(march, ViewMonth)
	if got[0].Key() != "2025-02-01..2025-02-28" {
		t.Fatalf("previous month = %s", got[0].Key())
	}
	if got[1].Key() != "2025-04-01..2025-04-30" {
		t.Fatalf("next month = %s", got[1].Key())
	}

	day := rng(t, "2025-03-10", "2025-03-10")
	got = adjacentRanges(day, ViewDay)
	if got[0].Key() != "2025-03-07..2025-03-09" {
		t.Fatalf("previous days = %s", got[0].Key())
	}
	if got[1].Key() != "2025-03-11..2025-03-13" {
		t.Fatalf("next days = %s", got[1].Key())
	}
}

func TestPrefetchAdjacent_WarmsNeighborsAndSwallowsErrors(t *testing.T) {
	var mu sync.Mutex
	failNext := true
	fetched := make(chan DateRange, 4)
	fetcher := &fakeFetcher{
		fetchFn: func(_ context.Context, _ uint, start, end timeutil.Date) ([]models.Appointment, error) {
			mu.Lock()
			fail := failNext
			failNext = false
			mu.Unlock()
			r := DateRange{Start: start, End: end}
			fetched <- r
			if fail {
				return nil, errors.New("transient")
			}
			return nil, nil
		},
	}
	cache := New(1, fetcher, zap.NewNop())
	week := rng(t, "2025-03-10", "2025-03-16")

	cache.PrefetchAdjacent(week, ViewWeek)

	for i := 0; i < 2; i++ {
		select {
		case <-fetched:
		case <-time.After(time.Second):
			t.Fatal("prefetch never reached the fetcher")
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(&fakeFetcher{}, zap.NewNop())

	a := reg.ForShop(1)
	if reg.ForShop(1) != a {
		t.Fatal("same shop must share one cache")
	}
	if reg.ForShop(2) == a {
		t.Fatal("different shops must not share caches")
	}

	reg.Drop(1)
	if reg.ForShop(1) == a {
		t.Fatal("dropped shop must get a fresh cache")
	}
}
