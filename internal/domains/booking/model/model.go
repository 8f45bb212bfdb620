package model

import (
	"database/sql"
	"stays/shared/constant"
	"stays/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldBookingCode     = "booking_code"
	FieldRoomID          = "room_id"
	FieldGuestKind       = "guest_kind"
	FieldUserID          = "user_id"
	FieldGuestEmail      = "guest_email"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldBookingType     = "booking_type"
	FieldStatus          = "status"
	FieldPaymentStatus   = "payment_status"
	FieldTotalAmount     = "total_amount"
	FieldDiscountApplied = "discount_applied"
	FieldFinalAmount     = "final_amount"
)

const (
	bookingCodePrefix = "BK-"
	bookingCodeLength = 8
)

type BookingType string

const (
	BookingTypeDaily   BookingType = "daily"
	BookingTypeWeekly  BookingType = "weekly"
	BookingTypeMonthly BookingType = "monthly"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeDaily, BookingTypeWeekly, BookingTypeMonthly:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// GuestKind tags who a booking belongs to.
type GuestKind string

const (
	GuestKindAccount GuestKind = "account"
	GuestKindContact GuestKind = "contact"
)

// GuestRef is either a registered account or an ad hoc contact known only by the
// guest_* details stored on the booking.
type GuestRef struct {
	Kind   GuestKind
	UserID string
}

func RegisteredAccount(userID string) GuestRef {
	return GuestRef{Kind: GuestKindAccount, UserID: userID}
}

func AdHocContact() GuestRef {
	return GuestRef{Kind: GuestKindContact}
}

// OwnedBy reports whether the account userID owns the booking. Contact bookings have no owner account.
func (g GuestRef) OwnedBy(userID string) bool {
	return g.Kind == GuestKindAccount && userID != constant.Empty && g.UserID == userID
}

type Booking struct {
	ID              string         `db:"id"`
	BookingCode     string         `db:"booking_code"`
	RoomID          string         `db:"room_id"`
	GuestKind       GuestKind      `db:"guest_kind"`
	UserID          sql.NullString `db:"user_id"`
	GuestName       string         `db:"guest_name"`
	GuestEmail      string         `db:"guest_email"`
	GuestPhone      string         `db:"guest_phone"`
	GuestAddress    string         `db:"guest_address"`
	GuestIDProof    string         `db:"guest_id_proof"`
	CheckInDate     time.Time      `db:"check_in_date"`
	CheckOutDate    time.Time      `db:"check_out_date"`
	BookingType     BookingType    `db:"booking_type"`
	TotalAmount     int64          `db:"total_amount"`
	DiscountApplied int64          `db:"discount_applied"`
	FinalAmount     int64          `db:"final_amount"`
	Status          Status         `db:"status"`
	PaymentStatus   PaymentStatus  `db:"payment_status"`
	SpecialRequests string         `db:"special_requests"`
	model.Metadata
}

func (b *Booking) Guest() GuestRef {
	return GuestRef{Kind: b.GuestKind, UserID: b.UserID.String}
}

func (b *Booking) SetGuest(ref GuestRef) {
	b.GuestKind = ref.Kind
	b.UserID = sql.NullString{String: ref.UserID, Valid: ref.Kind == GuestKindAccount && ref.UserID != constant.Empty}
}

// Overlaps is the conflict test for two stays. Bounds are inclusive: a check-out on the
// same day as another check-in conflicts.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

// NewBookingCode returns a human readable code such as BK-3F9A0C1D.
func NewBookingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")

	return bookingCodePrefix + strings.ToUpper(raw[:bookingCodeLength])
}
