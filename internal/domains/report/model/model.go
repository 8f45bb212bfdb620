package model

import "time"

// StatusCount is the number of bookings in one status.
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// Inventory counts rooms in the catalog.
type Inventory struct {
	Total     int `db:"total"`
	Available int `db:"available"`
}

// RecentBooking is a booking row joined with its room name for the dashboard.
type RecentBooking struct {
	ID          string    `db:"id"`
	BookingCode string    `db:"booking_code"`
	RoomName    *string   `db:"room_name"`
	GuestName   string    `db:"guest_name"`
	Status      string    `db:"status"`
	FinalAmount int64     `db:"final_amount"`
	CheckIn     time.Time `db:"check_in_date"`
	CheckOut    time.Time `db:"check_out_date"`
	CreatedAt   time.Time `db:"created_at"`
}

// RevenueRow is one confirmed booking counted towards revenue.
type RevenueRow struct {
	BookingID   string    `db:"id"`
	RoomType    *string   `db:"room_type"`
	BookingType string    `db:"booking_type"`
	FinalAmount int64     `db:"final_amount"`
	CreatedAt   time.Time `db:"created_at"`
}
