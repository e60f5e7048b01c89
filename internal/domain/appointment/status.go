package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

// InitialStatus is the status every new booking starts in.
func InitialStatus() Status {
	return StatusPending
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the appointment no longer occupies a
// slot on the calendar.
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCanceled
}

// ===============================
// Validations
// ===============================

// CanCancel rejects cancelling an appointment that is already off
// the calendar.
func CanCancel(current Status) error {
	if current.IsTerminal() {
		return validationError("appointment is already " + string(current))
	}
	return nil
}

// CanConfirm only allows confirming a pending request.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return validationError("only pending appointments can be confirmed")
	}
	return nil
}

// CanMarkNoShow requires a booking that was actually expected.
func CanMarkNoShow(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return validationError("only pending or confirmed appointments can be marked no-show")
	}
	return nil
}
