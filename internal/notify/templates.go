package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// BookingConfirmation is the data shown in the guest confirmation email.
type BookingConfirmation struct {
	Reference    string
	GuestName    string
	PropertyName string
	UnitName     string
	CheckIn      string
	CheckOut     string
	Nights       int
	Total        string
	Currency     string
}

var bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Booking Confirmation</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<h1>Booking request received</h1>
<p>Dear {{.GuestName}},</p>
<p>Thank you for your booking request. We have received your reservation and will confirm it shortly.</p>
<table style="width: 100%; border-collapse: collapse;">
<tr><td><strong>Booking Reference:</strong></td><td>{{.Reference}}</td></tr>
<tr><td><strong>Property:</strong></td><td>{{.PropertyName}}</td></tr>
{{- if .UnitName}}
<tr><td><strong>Unit:</strong></td><td>{{.UnitName}}</td></tr>
{{- end}}
<tr><td><strong>Check-in:</strong></td><td>{{.CheckIn}}</td></tr>
<tr><td><strong>Check-out:</strong></td><td>{{.CheckOut}}</td></tr>
<tr><td><strong>Nights:</strong></td><td>{{.Nights}}</td></tr>
<tr><td><strong>Total Price:</strong></td><td>{{.Currency}}{{.Total}}</td></tr>
</table>
<p>If you have any questions, please don't hesitate to contact us.</p>
<p>Best regards,<br><strong>The Keten Team</strong></p>
<p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply directly to this message.</p>
</body>
</html>
`))

// NewBookingConfirmation renders the confirmation email for a guest.
func NewBookingConfirmation(to string, data BookingConfirmation) (Message, error) {
	if data.Currency == "" {
		data.Currency = "₺"
	}
	var buf bytes.Buffer
	if err := bookingConfirmationTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render booking confirmation: %w", err)
	}
	return Message{
		To:      []string{to},
		Subject: "Booking Confirmation - " + data.Reference,
		HTML:    buf.String(),
	}, nil
}
