package services

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"
)

type messageFormat struct {
	locale   monday.Locale
	layout   string
	clock    func(t time.Time) string
	template string
}

var bookingFormats = map[string]messageFormat{
	"pt": {
		locale: monday.LocalePtBR,
		layout: "02 de January, às ",
		// Unpadded hour, as in "9:00h".
		clock: func(t time.Time) string {
			return fmt.Sprintf("%d:%02dh", t.Hour(), t.Minute())
		},
		template: "Novo agendamento para %s no dia %s",
	},
	"en": {
		locale:   monday.LocaleEnUS,
		layout:   "January 02, at 15:04",
		template: "New appointment for %s on %s",
	},
}

const defaultLocale = "pt"

func formatFor(locale string) messageFormat {
	if f, ok := bookingFormats[locale]; ok {
		return f
	}
	return bookingFormats[defaultLocale]
}

// FormatBookingDate renders date in loc using the month names of locale.
// Unknown locales fall back to Portuguese.
func FormatBookingDate(date time.Time, locale string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	date = date.In(loc)
	f := formatFor(locale)

	out := monday.Format(date, f.layout, f.locale)
	if f.clock != nil {
		out += f.clock(date)
	}
	return out
}

// BookingMessage is the provider-facing text for a new appointment.
func BookingMessage(customerName string, date time.Time, locale string, loc *time.Location) string {
	return fmt.Sprintf(formatFor(locale).template, customerName, FormatBookingDate(date, locale, loc))
}
