// Package pricing turns a room's rates and a stay into amounts. It has no side effects.
package pricing

import (
	"errors"
	"stays/internal/domains/booking/model"
	"time"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30

	basisPointsDenominator = 10_000
)

var (
	ErrInvalidRange       = errors.New("check-out date must be after check-in date")
	ErrUnknownBookingType = errors.New("booking type must be one of daily, weekly, monthly")
	ErrNegativeRate       = errors.New("room rate must not be negative")
)

// Rates are the room's prices in minor currency units.
type Rates struct {
	PerDay   int64
	PerWeek  int64
	PerMonth int64
}

type Quote struct {
	DurationDays    int64
	BillableUnits   int64
	UnitRate        int64
	TotalAmount     int64
	DiscountApplied int64
	FinalAmount     int64
}

// DurationDays counts started days: 25 hours is 2 days.
func DurationDays(checkIn, checkOut time.Time) int64 {
	d := checkOut.Sub(checkIn)
	days := int64(d / (24 * time.Hour))

	if d%(24*time.Hour) != 0 {
		days++
	}

	return days
}

// Discount is total * basisPoints / 10000, rounded half up to the minor unit.
func Discount(total, basisPoints int64) int64 {
	if total <= 0 || basisPoints <= 0 {
		return 0
	}

	return (total*basisPoints + basisPointsDenominator/2) / basisPointsDenominator
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func Calculate(rates Rates, checkIn, checkOut time.Time, bookingType model.BookingType, eligible bool, discountBasisPoints int64) (Quote, error) {
	if !checkOut.After(checkIn) {
		return Quote{}, ErrInvalidRange
	}

	q := Quote{DurationDays: DurationDays(checkIn, checkOut)}

	switch bookingType {
	case model.BookingTypeDaily:
		q.BillableUnits, q.UnitRate = q.DurationDays, rates.PerDay
	case model.BookingTypeWeekly:
		q.BillableUnits, q.UnitRate = ceilDiv(q.DurationDays, daysPerWeek), rates.PerWeek
	case model.BookingTypeMonthly:
		q.BillableUnits, q.UnitRate = ceilDiv(q.DurationDays, daysPerMonth), rates.PerMonth
	default:
		return Quote{}, ErrUnknownBookingType
	}

	if q.UnitRate < 0 {
		return Quote{}, ErrNegativeRate
	}

	q.TotalAmount = q.UnitRate * q.BillableUnits

	if eligible {
		q.DiscountApplied = Discount(q.TotalAmount, discountBasisPoints)
	}

	if q.DiscountApplied > q.TotalAmount {
		q.DiscountApplied = q.TotalAmount
	}

	q.FinalAmount = q.TotalAmount - q.DiscountApplied

	return q, nil
}
