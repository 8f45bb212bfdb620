package dto

import (
	"stays/shared"
	"time"
)

const (
	ReasonRoomUnavailable  = "This room is currently not available for booking."
	ReasonDatesAvailable   = "Room is available for the selected dates"
	ReasonDatesUnavailable = "Room is not available for the selected dates"
)

type CheckAvailabilityRequest struct {
	RoomID       string `json:"room_id"        validate:"required"`
	CheckInDate  string `json:"check_in_date"  validate:"required,date"`
	CheckOutDate string `json:"check_out_date" validate:"required,date,after_field=CheckInDate"`
}

// Range parses the requested stay.
func (c *CheckAvailabilityRequest) Range() (checkIn, checkOut time.Time, err error) {
	if checkIn, err = shared.ParseDate(c.CheckInDate); err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = shared.ParseDate(c.CheckOutDate)

	return checkIn, checkOut, err
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}
