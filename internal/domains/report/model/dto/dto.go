package dto

import (
	"fmt"
	"stays/internal/domains/report/model"
	"stays/shared"
	"time"
)

type BookingCounts struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

type RoomCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

type RecentBooking struct {
	ID          string    `json:"id"`
	BookingCode string    `json:"booking_code"`
	RoomName    string    `json:"room_name,omitempty"`
	GuestName   string    `json:"guest_name"`
	Status      string    `json:"status"`
	FinalAmount int64     `json:"final_amount"`
	CheckIn     time.Time `json:"check_in_date"`
	CheckOut    time.Time `json:"check_out_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *RecentBooking) FromModel(m model.RecentBooking) {
	r.ID = m.ID
	r.BookingCode = m.BookingCode
	if m.RoomName != nil {
		r.RoomName = *m.RoomName
	}
	r.GuestName = m.GuestName
	r.Status = m.Status
	r.FinalAmount = m.FinalAmount
	r.CheckIn = m.CheckIn
	r.CheckOut = m.CheckOut
	r.CreatedAt = m.CreatedAt
}

type DashboardResponse struct {
	Bookings       BookingCounts   `json:"bookings"`
	Revenue        int64           `json:"revenue"`
	Rooms          RoomCounts      `json:"rooms"`
	Guests         int             `json:"guests"`
	RecentBookings []RecentBooking `json:"recent_bookings"`
}

// RevenueRequest bounds the report by booking creation date. Both bounds are optional.
type RevenueRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,date"`
	EndDate   string `json:"end_date"   validate:"omitempty,date"`
}

// Range parses the bounds; the end date covers the whole day.
func (r *RevenueRequest) Range() (start, end *time.Time, err error) {
	if r.StartDate != "" {
		parsed, err := shared.ParseDate(r.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("start_date: %w", err)
		}

		start = &parsed
	}

	if r.EndDate != "" {
		parsed, err := shared.ParseDate(r.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("end_date: %w", err)
		}

		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		end = &parsed
	}

	return start, end, nil
}

type Breakdown struct {
	Key      string `json:"key"`
	Bookings int    `json:"bookings"`
	Revenue  int64  `json:"revenue"`
}

type RevenueResponse struct {
	StartDate     *time.Time  `json:"start_date,omitempty"`
	EndDate       *time.Time  `json:"end_date,omitempty"`
	TotalRevenue  int64       `json:"total_revenue"`
	BookingCount  int         `json:"booking_count"`
	ByRoomType    []Breakdown `json:"by_room_type"`
	ByBookingType []Breakdown `json:"by_booking_type"`
}
