package appointment

import (
	"testing"

	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

func baseFields(t *testing.T) Fields {
	t.Helper()
	return Fields{
		Date:   mustDate(t, "2025-03-10"),
		Start:  tod(10, 0),
		End:    tod(11, 0),
		Status: StatusConfirmed,
		Type:   "fitting",
	}
}

func statusPtr(s Status) *Status { return &s }

func datePtr(d timeutil.Date) *timeutil.Date { return &d }

func todPtr(v timeutil.TimeOfDay) *timeutil.TimeOfDay { return &v }

func TestApplyPatch_RescheduleResetsStatus(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ApplyPatch(existing, Patch{
		Date: datePtr(mustDate(t, "2025-03-12")),
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status == nil || *got.Status != StatusPending {
		t.Fatalf("moved appointment must drop to pending, got %v", got.Status)
	}
}

func TestApplyPatch_NewStartResetsStatus(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ApplyPatch(existing, Patch{
		Start: todPtr(tod(14, 0)),
		End:   todPtr(tod(15, 0)),
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status == nil || *got.Status != StatusPending {
		t.Fatalf("moved appointment must drop to pending, got %v", got.Status)
	}
}

func TestApplyPatch_ExplicitStatusWins(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ApplyPatch(existing, Patch{
		Date:   datePtr(mustDate(t, "2025-03-12")),
		Status: statusPtr(StatusCanceled),
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status == nil || *got.Status != StatusCanceled {
		t.Fatalf("explicit status must win over reschedule, got %v", got.Status)
	}
}

func TestApplyPatch_NotesOnlyLeavesStatusAlone(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))
	notes := "bring the hem pins"

	got, err := ApplyPatch(existing, Patch{Notes: &notes}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != nil {
		t.Fatalf("notes-only update must not touch status, got %v", *got.Status)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Fatalf("notes not carried: %v", got.Notes)
	}
}

func TestApplyPatch_SameValuesAreNotAReschedule(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ApplyPatch(existing, Patch{
		Date:  datePtr(existing.Date),
		Start: todPtr(existing.Start),
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != nil {
		t.Fatalf("resending the same time must not reset status, got %v", *got.Status)
	}
}

func TestApplyPatch_RejectsInvertedWindow(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	_, err := ApplyPatch(existing, Patch{
		Start: todPtr(tod(15, 0)),
		End:   todPtr(tod(14, 0)),
	}, now)
	if !IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestApplyPatch_RejectsUnknownStatus(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	_, err := ApplyPatch(existing, Patch{Status: statusPtr(Status("done"))}, now)
	if !IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestApplyPatch_RejectsMoveIntoPast(t *testing.T) {
	existing := baseFields(t)
	now := timeutil.Combine(mustDate(t, "2025-03-11"), tod(8, 0))

	_, err := ApplyPatch(existing, Patch{
		Date: datePtr(mustDate(t, "2025-03-09")),
	}, now)
	if !IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestApplyPatch_CancelingPastAppointmentAllowed(t *testing.T) {
	existing := baseFields(t)
	// The appointment already happened.
	now := timeutil.Combine(mustDate(t, "2025-03-11"), tod(8, 0))

	got, err := ApplyPatch(existing, Patch{Status: statusPtr(StatusNoShow)}, now)
	if err != nil {
		t.Fatalf("closing out a past appointment must work: %v", err)
	}
	if got.Status == nil || *got.Status != StatusNoShow {
		t.Fatalf("status not applied: %v", got.Status)
	}
}

func TestStatusTransitions(t *testing.T) {
	if err := CanCancel(StatusConfirmed); err != nil {
		t.Fatalf("cancel confirmed: %v", err)
	}
	if err := CanCancel(StatusCanceled); err == nil {
		t.Fatal("cancelling twice must fail")
	}
	if err := CanConfirm(StatusPending); err != nil {
		t.Fatalf("confirm pending: %v", err)
	}
	if err := CanConfirm(StatusConfirmed); err == nil {
		t.Fatal("confirming a confirmed appointment must fail")
	}
	if err := CanMarkNoShow(StatusCanceled); err == nil {
		t.Fatal("no-show on a canceled appointment must fail")
	}

	for _, s := range []Status{StatusDeclined, StatusCanceled} {
		if !s.IsTerminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusNoShow} {
		if s.IsTerminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}
