package dto

import (
	"fmt"
	"stays/internal/domains/booking/model"
	"stays/internal/domains/booking/pricing"
	roomModel "stays/internal/domains/room/model"
	"stays/shared"
	gDto "stays/shared/dto"
	gModel "stays/shared/model"
	"stays/shared/timezone"
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest books one room. PriorGuestID is the account id a returning guest
// received with an earlier booking.
type CreateBookingRequest struct {
	RoomID          string `json:"room_id"          validate:"required"`
	CheckInDate     string `json:"check_in_date"    validate:"required,date"`
	CheckOutDate    string `json:"check_out_date"   validate:"required,date,after_field=CheckInDate"`
	BookingType     string `json:"booking_type"     validate:"required"`
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=100"`
	GuestPhone      string `json:"guest_phone"      validate:"required,max=20"`
	GuestAddress    string `json:"guest_address"    validate:"omitempty,max=255"`
	GuestIDProof    string `json:"guest_id_proof"   validate:"omitempty,max=100"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
	PriorGuestID    string `json:"prior_guest_id"   validate:"omitempty"`
}

func (c *CreateBookingRequest) Range() (checkIn, checkOut time.Time, err error) {
	if checkIn, err = shared.ParseDate(c.CheckInDate); err != nil {
		return checkIn, checkOut, fmt.Errorf("check_in_date: %w", err)
	}

	if checkOut, err = shared.ParseDate(c.CheckOutDate); err != nil {
		return checkIn, checkOut, fmt.Errorf("check_out_date: %w", err)
	}

	return checkIn, checkOut, nil
}

// ToModel builds a draft booking; the code is assigned by the service.
func (c *CreateBookingRequest) ToModel(guest model.GuestRef, checkIn, checkOut time.Time, quote pricing.Quote, actor string) model.Booking {
	booking := model.Booking{
		ID:              uuid.NewString(),
		RoomID:          c.RoomID,
		GuestName:       c.GuestName,
		GuestEmail:      c.GuestEmail,
		GuestPhone:      c.GuestPhone,
		GuestAddress:    c.GuestAddress,
		GuestIDProof:    c.GuestIDProof,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		BookingType:     model.BookingType(c.BookingType),
		TotalAmount:     quote.TotalAmount,
		DiscountApplied: quote.DiscountApplied,
		FinalAmount:     quote.FinalAmount,
		Status:          model.StatusDraft,
		PaymentStatus:   model.PaymentStatusPending,
		SpecialRequests: c.SpecialRequests,
		Metadata:        gModel.NewMetadata(actor, timezone.Now()),
	}

	booking.SetGuest(guest)

	return booking
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RoomSummary is the room as shown next to a booking.
type RoomSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	RoomType string   `json:"room_type"`
	Images   []string `json:"images"`
}

type BookingResponse struct {
	ID              string       `json:"id"`
	BookingCode     string       `json:"booking_code"`
	RoomID          string       `json:"room_id"`
	Room            *RoomSummary `json:"room,omitempty"`
	GuestKind       string       `json:"guest_kind"`
	UserID          string       `json:"user_id,omitempty"`
	GuestName       string       `json:"guest_name"`
	GuestEmail      string       `json:"guest_email"`
	GuestPhone      string       `json:"guest_phone"`
	GuestAddress    string       `json:"guest_address,omitempty"`
	GuestIDProof    string       `json:"guest_id_proof,omitempty"`
	CheckInDate     time.Time    `json:"check_in_date"`
	CheckOutDate    time.Time    `json:"check_out_date"`
	BookingType     string       `json:"booking_type"`
	TotalAmount     int64        `json:"total_amount"`
	DiscountApplied int64        `json:"discount_applied"`
	FinalAmount     int64        `json:"final_amount"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"payment_status"`
	SpecialRequests string       `json:"special_requests,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.BookingCode = m.BookingCode
	r.RoomID = m.RoomID
	r.GuestKind = string(m.GuestKind)
	r.UserID = m.UserID.String
	r.GuestName = m.GuestName
	r.GuestEmail = m.GuestEmail
	r.GuestPhone = m.GuestPhone
	r.GuestAddress = m.GuestAddress
	r.GuestIDProof = m.GuestIDProof
	r.CheckInDate = m.CheckInDate
	r.CheckOutDate = m.CheckOutDate
	r.BookingType = string(m.BookingType)
	r.TotalAmount = m.TotalAmount
	r.DiscountApplied = m.DiscountApplied
	r.FinalAmount = m.FinalAmount
	r.Status = string(m.Status)
	r.PaymentStatus = string(m.PaymentStatus)
	r.SpecialRequests = m.SpecialRequests
	r.Metadata.FromModel(m.Metadata)
}

// WithRoom attaches the room summary; a deleted room leaves Room nil.
func (r *BookingResponse) WithRoom(room roomModel.Room) {
	if room.ID == "" {
		return
	}

	r.Room = &RoomSummary{
		ID:       room.ID,
		Name:     room.Name,
		RoomType: string(room.RoomType),
		Images:   []string(room.Images),
	}
}

// Guest is the ownership tag of the booking behind this response.
func (r *BookingResponse) Guest() model.GuestRef {
	return model.GuestRef{Kind: model.GuestKind(r.GuestKind), UserID: r.UserID}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, rooms map[string]roomModel.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
		r.Bookings[i].WithRoom(rooms[mod.RoomID])
	}
}
