package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// FromError maps the scheduling error taxonomy onto HTTP responses:
// parse and validation failures are the caller's fault, a fetch
// failure is the upstream store's, business codes keep their own
// wording.
func FromError(c *gin.Context, err error) {
	var pe *timeutil.ParseError
	if errors.As(err, &pe) {
		BadRequest(c, "invalid_date_or_time", pe.Error())
		return
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		BadRequest(c, "validation_failed", ve.Error())
		return
	}

	var fe *rangecache.FetchError
	if errors.As(err, &fe) {
		Internal(c, "fetch_failed", "Could not load appointments.")
		return
	}

	if code, ok := BusinessCode(err); ok {
		switch code {
		case "appointment_not_found", "service_not_found":
			NotFound(c, code, "Not found.")
		case "time_conflict":
			Conflict(c, code, "The requested time is already taken.")
		default:
			BadRequest(c, code, "Request rejected.")
		}
		return
	}

	Internal(c, "internal_error", "Unexpected error.")
}
