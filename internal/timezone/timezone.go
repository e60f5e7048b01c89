// Package timezone is the only place absolute instants meet IANA
// locations. Everything it hands to the scheduling core is already a
// shop-local wall-clock value.
package timezone

import (
	"time"

	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// NowWallClock reads the current instant as the shop's local
// wall-clock. This is the normalization the core assumes has
// happened before "now" reaches it.
func NowWallClock(tz string) timeutil.DateTime {
	return timeutil.FromTime(time.Now().In(Location(tz)))
}
