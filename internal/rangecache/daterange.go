package rangecache

import (
	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// DateRange is an inclusive span of calendar dates, the cache key
// unit.
type DateRange struct {
	Start timeutil.Date
	End   timeutil.Date
}

func NewDateRange(start, end timeutil.Date) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, domain.NewValidationError("range end must not be before start")
	}
	return DateRange{Start: start, End: end}, nil
}

func (r DateRange) Key() string {
	return r.Start.String() + ".." + r.End.String()
}

func (r DateRange) String() string {
	return r.Key()
}

func (r DateRange) Contains(d timeutil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) Overlaps(o DateRange) bool {
	return !r.End.Before(o.Start) && !o.End.Before(r.Start)
}

// Days is the number of calendar days in the range, at least 1.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// View is the calendar granularity driving prefetch sizing.
type View int

const (
	ViewDay View = iota
	ViewWeek
	ViewMonth
)

// adjacentRanges picks the neighbors worth loading speculatively
// around the visible range: the surrounding calendar months for a
// month view, a week either side for a week view, three days either
// side otherwise.
func adjacentRanges(current DateRange, view View) []DateRange {
	switch view {
	case ViewMonth:
		prevEnd := timeutil.Date{Year: current.Start.Year, Month: current.Start.Month, Day: 1}.AddDays(-1)
		prevStart := timeutil.Date{Year: prevEnd.Year, Month: prevEnd.Month, Day: 1}
		nextStart := timeutil.Date{Year: current.End.Year, Month: current.End.Month, Day: 1}.AddDays(32)
		nextStart = timeutil.Date{Year: nextStart.Year, Month: nextStart.Month, Day: 1}
		nextEnd := nextStart.AddDays(31)
		nextEnd = timeutil.Date{Year: nextEnd.Year, Month: nextEnd.Month, Day: 1}.AddDays(-1)
		return []DateRange{
			{Start: prevStart, End: prevEnd},
			{Start: nextStart, End: nextEnd},
		}
	case ViewWeek:
		return []DateRange{
			{Start: current.Start.AddDays(-7), End: current.Start.AddDays(-1)},
			{Start: current.End.AddDays(1), End: current.End.AddDays(7)},
		}
	default:
		return []DateRange{
			{Start: current.Start.AddDays(-3), End: current.Start.AddDays(-1)},
			{Start: current.End.AddDays(1), End: current.End.AddDays(3)},
		}
	}
}
