package appointment

import (
	"context"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/dto"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

type ListAppointmentsByRange struct {
	caches *rangecache.Registry
}

func NewListAppointmentsByRange(caches *rangecache.Registry) *ListAppointmentsByRange {
	return &ListAppointmentsByRange{caches: caches}
}

// Execute serves a calendar view: load the visible range through the
// session cache, answer from memory, then warm the neighbors the
// user will pan to next.
func (uc *ListAppointmentsByRange) Execute(
	ctx context.Context,
	atelierID uint,
	rng rangecache.DateRange,
	view rangecache.View,
) ([]dto.AppointmentListDTO, error) {

	cache := uc.caches.ForShop(atelierID)

	if err := cache.Load(ctx, rng); err != nil {
		return nil, err
	}

	appointments := cache.GetForRange(rng)
	cache.PrefetchAdjacent(rng, view)

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.Date,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			Type:        ap.Type,
			ClientName:  ap.Client.Name,
			ServiceName: ap.ServiceOffering.Name,
		})
	}

	return out, nil
}

// MonthRange is the inclusive date range of one calendar month.
func MonthRange(year, month int) (rangecache.DateRange, error) {
	if month < 1 || month > 12 {
		return rangecache.DateRange{}, domain.NewValidationError("month must be between 1 and 12")
	}
	start := timeutil.Date{Year: year, Month: month, Day: 1}
	var end timeutil.Date
	if month == 12 {
		end = timeutil.Date{Year: year + 1, Month: 1, Day: 1}.AddDays(-1)
	} else {
		end = timeutil.Date{Year: year, Month: month + 1, Day: 1}.AddDays(-1)
	}
	return rangecache.DateRange{Start: start, End: end}, nil
}
