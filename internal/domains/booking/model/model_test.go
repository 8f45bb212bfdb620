package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stays/internal/domains/booking/model"
	"stays/shared/failure"
)

func day(d int) time.Time {
	return time.Date(2026, time.May, d, 0, 0, 0, 0, time.UTC)
}

func TestStatus_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    model.Status
		to      model.Status
		wantErr string
	}{
		{name: "draft to confirmed", from: model.StatusDraft, to: model.StatusConfirmed},
		{name: "draft to cancelled", from: model.StatusDraft, to: model.StatusCancelled},
		{name: "confirmed to completed", from: model.StatusConfirmed, to: model.StatusCompleted},
		{name: "confirmed to cancelled", from: model.StatusConfirmed, to: model.StatusCancelled},
		{
			name:    "cancelled to confirmed",
			from:    model.StatusCancelled,
			to:      model.StatusConfirmed,
			wantErr: "booking with status cancelled cannot be transitioned",
		},
		{
			name:    "re-cancel",
			from:    model.StatusCancelled,
			to:      model.StatusCancelled,
			wantErr: "booking with status cancelled cannot be transitioned",
		},
		{
			name:    "completed to cancelled",
			from:    model.StatusCompleted,
			to:      model.StatusCancelled,
			wantErr: "booking with status completed cannot be transitioned",
		},
		{
			name:    "draft to completed skips confirmation",
			from:    model.StatusDraft,
			to:      model.StatusCompleted,
			wantErr: "booking cannot transition from draft to completed",
		},
		{
			name:    "confirmed back to draft",
			from:    model.StatusConfirmed,
			to:      model.StatusDraft,
			wantErr: "booking cannot transition from confirmed to draft",
		},
		{
			name:    "same state",
			from:    model.StatusDraft,
			to:      model.StatusDraft,
			wantErr: "booking cannot transition from draft to draft",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.from.Transition(tt.to)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, failure.Is(err, failure.KindConflict))
		})
	}
}

func TestStatus_Lifecycle(t *testing.T) {
	status := model.StatusDraft

	for _, next := range []model.Status{model.StatusConfirmed, model.StatusCompleted} {
		assert.NoError(t, status.Transition(next))
		status = next
	}

	assert.True(t, status.IsTerminal())
	assert.False(t, status.IsActive())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, model.StatusDraft.Valid())
	assert.True(t, model.StatusCompleted.Valid())
	assert.False(t, model.Status("pending").Valid())
	assert.ElementsMatch(t, []string{"draft", "confirmed"}, model.ActiveStatuses())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name             string
		inA, outA        time.Time
		inB, outB        time.Time
		expectedOverlaps bool
	}{
		{name: "identical", inA: day(10), outA: day(12), inB: day(10), outB: day(12), expectedOverlaps: true},
		{name: "contained", inA: day(11), outA: day(12), inB: day(10), outB: day(15), expectedOverlaps: true},
		{name: "straddles start", inA: day(8), outA: day(11), inB: day(10), outB: day(12), expectedOverlaps: true},
		{name: "check-out on other check-in day", inA: day(8), outA: day(10), inB: day(10), outB: day(12), expectedOverlaps: true},
		{name: "check-in on other check-out day", inA: day(12), outA: day(14), inB: day(10), outB: day(12), expectedOverlaps: true},
		{name: "strictly before", inA: day(5), outA: day(9), inB: day(10), outB: day(12), expectedOverlaps: false},
		{name: "strictly after", inA: day(13), outA: day(15), inB: day(10), outB: day(12), expectedOverlaps: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedOverlaps, model.Overlaps(tt.inA, tt.outA, tt.inB, tt.outB))
			assert.Equal(t, tt.expectedOverlaps, model.Overlaps(tt.inB, tt.outB, tt.inA, tt.outA))
		})
	}
}

func TestGuestRef(t *testing.T) {
	b := model.Booking{}

	b.SetGuest(model.RegisteredAccount("user-1"))
	assert.Equal(t, model.GuestKindAccount, b.GuestKind)
	assert.True(t, b.UserID.Valid)
	assert.True(t, b.Guest().OwnedBy("user-1"))
	assert.False(t, b.Guest().OwnedBy("user-2"))

	b.SetGuest(model.AdHocContact())
	assert.Equal(t, model.GuestKindContact, b.GuestKind)
	assert.False(t, b.UserID.Valid)
	assert.False(t, b.Guest().OwnedBy(""))
}

func TestNewBookingCode(t *testing.T) {
	code := model.NewBookingCode()

	assert.Len(t, code, 11)
	assert.True(t, strings.HasPrefix(code, "BK-"))
	assert.Equal(t, strings.ToUpper(code), code)
	assert.NotEqual(t, code, model.NewBookingCode())
}

func TestBookingType_Valid(t *testing.T) {
	assert.True(t, model.BookingTypeWeekly.Valid())
	assert.False(t, model.BookingType("hourly").Valid())
}
