package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const noticeDateLayout = "Mon, 02 Jan 2006"

// BookingNotice carries what the guest-facing booking emails render.
type BookingNotice struct {
	GuestID         string
	GuestName       string
	GuestEmail      string
	BookingCode     string
	RoomName        string
	RoomType        string
	BookingType     string
	Status          string
	CheckIn         time.Time
	CheckOut        time.Time
	TotalAmount     int64
	DiscountApplied int64
	FinalAmount     int64
}

var statusNotes = map[string]string{
	"confirmed": "We look forward to welcoming you!",
	"cancelled": "We hope to serve you in the future.",
	"completed": "Thank you for staying with us. We hope to see you again!",
}

var funcs = template.FuncMap{
	"date":  func(t time.Time) string { return t.Format(noticeDateLayout) },
	"money": FormatAmount,
}

var bookingCreatedTmpl = template.Must(template.New("created").Funcs(funcs).Parse(`<h2>Booking Confirmation</h2>
<p>Dear {{.GuestName}},</p>
<p>Thank you for your booking. Your reservation is awaiting confirmation.</p>
<table>
<tr><td>Booking code</td><td>{{.BookingCode}}</td></tr>
<tr><td>Room</td><td>{{.RoomName}} ({{.RoomType}})</td></tr>
<tr><td>Check-in</td><td>{{date .CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{date .CheckOut}}</td></tr>
<tr><td>Booking type</td><td>{{.BookingType}}</td></tr>
<tr><td>Total</td><td>{{money .TotalAmount}}</td></tr>
{{- if gt .DiscountApplied 0}}
<tr><td>Returning guest discount</td><td>-{{money .DiscountApplied}}</td></tr>
{{- end}}
<tr><td>Amount due</td><td>{{money .FinalAmount}}</td></tr>
</table>
{{- if .GuestID}}
<p>Quote your guest id <strong>{{.GuestID}}</strong> on your next booking to receive the returning guest discount.</p>
{{- end}}`))

var bookingStatusTmpl = template.Must(template.New("status").Funcs(funcs).Parse(`<h2>Booking {{.Notice.Status}}</h2>
<p>Dear {{.Notice.GuestName}},</p>
<p>Your booking <strong>{{.Notice.BookingCode}}</strong> for {{.Notice.RoomName}}
({{date .Notice.CheckIn}} to {{date .Notice.CheckOut}}) is now <strong>{{.Notice.Status}}</strong>.</p>
{{- if .Note}}
<p>{{.Note}}</p>
{{- end}}`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<h2>Welcome!</h2>
<p>Dear {{.}},</p>
<p>Your account has been created. You can now book rooms with us.</p>`))

// FormatAmount renders minor units as a two-decimal amount.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// StatusNote is the closing line used for a status update email.
func StatusNote(status string) string {
	return statusNotes[status]
}

func BookingCreated(n BookingNotice) (Message, error) {
	var body bytes.Buffer

	if err := bookingCreatedTmpl.Execute(&body, n); err != nil {
		return Message{}, fmt.Errorf("failed to render booking confirmation: %w", err)
	}

	return Message{
		Kind:    KindBookingCreated,
		To:      n.GuestEmail,
		Subject: "Booking Confirmation - " + n.BookingCode,
		Body:    body.String(),
	}, nil
}

func BookingStatusChanged(n BookingNotice) (Message, error) {
	var body bytes.Buffer

	data := struct {
		Notice BookingNotice
		Note   string
	}{n, StatusNote(n.Status)}

	if err := bookingStatusTmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render booking status update: %w", err)
	}

	return Message{
		Kind:    KindBookingStatus,
		To:      n.GuestEmail,
		Subject: fmt.Sprintf("Booking %s - %s", n.Status, n.BookingCode),
		Body:    body.String(),
	}, nil
}

func Welcome(name, email string) (Message, error) {
	var body bytes.Buffer

	if err := welcomeTmpl.Execute(&body, name); err != nil {
		return Message{}, fmt.Errorf("failed to render welcome email: %w", err)
	}

	return Message{
		Kind:    KindWelcome,
		To:      email,
		Subject: "Welcome to our hotel",
		Body:    body.String(),
	}, nil
}
