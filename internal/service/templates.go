package service

import "strings"

// Template keys, one per lifecycle transition plus the reminder sweep.
const (
	TemplateBookingApproved        = "booking_approved"
	TemplateBookingDeclined        = "booking_declined"
	TemplateRentalStarted          = "rental_started"
	TemplateBookingCancelledAdmin  = "booking_cancelled_by_admin"
	TemplateBookingCancelledByUser = "booking_cancelled_by_user"
	TemplateBookingCompleted       = "booking_completed"
	TemplatePickupReminder         = "pickup_reminder"
	TemplateReturnReminder         = "return_reminder"
)

type notificationTemplate struct {
	Subject string
	Body    string
}

// Plain-text lifecycle templates. The subject line is used for email only;
// SMS sends the body. Richer HTML variants belong to the gateway, not here.
var notificationTemplates = map[string]notificationTemplate{
	TemplateBookingApproved: {
		Subject: "Your booking has been approved",
		Body:    "Hi {name}, good news! Your booking {id} has been approved. Please be ready at your pickup time.",
	},
	TemplateBookingDeclined: {
		Subject: "Your booking was declined",
		Body:    "Hi {name}, we are sorry. Your booking {id} was declined. Please contact us for other options.",
	},
	TemplateRentalStarted: {
		Subject: "Your rental has started",
		Body:    "Hi {name}, your rental for booking {id} has started. Safe travels!",
	},
	TemplateBookingCancelledAdmin: {
		Subject: "Your booking was cancelled",
		Body:    "Hi {name}, your booking {id} was cancelled by our staff. Please contact us if this is unexpected.",
	},
	TemplateBookingCancelledByUser: {
		Subject: "Your booking cancellation",
		Body:    "Hi {name}, your booking {id} has been cancelled as requested.",
	},
	TemplateBookingCompleted: {
		Subject: "Your rental is complete",
		Body:    "Hi {name}, booking {id} is complete. Thank you for renting with us!",
	},
	TemplatePickupReminder: {
		Subject: "Pickup reminder",
		Body:    "Hi {name}, a reminder that your booking {id} starts on {start}.",
	},
	TemplateReturnReminder: {
		Subject: "Return reminder",
		Body:    "Hi {name}, a reminder that your booking {id} is due back on {end}.",
	},
}

// renderTemplate substitutes {placeholder} variables into the template body
// and subject.
func renderTemplate(tpl notificationTemplate, vars map[string]string) (string, string) {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(tpl.Subject), r.Replace(tpl.Body)
}
