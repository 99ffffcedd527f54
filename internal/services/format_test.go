package services

import (
	"strings"
	"testing"
	"time"
)

func TestFormatBookingDate(t *testing.T) {
	date := time.Date(2030, time.March, 15, 10, 0, 0, 0, time.UTC)

	pt := FormatBookingDate(date, "pt", time.UTC)
	if !strings.HasPrefix(pt, "15 de ") || !strings.HasSuffix(pt, ", às 10:00h") {
		t.Errorf("unexpected pt date %q", pt)
	}
	if strings.Contains(pt, "March") {
		t.Errorf("month not translated in %q", pt)
	}

	if en := FormatBookingDate(date, "en", time.UTC); en != "March 15, at 10:00" {
		t.Errorf("unexpected en date %q", en)
	}
}

func TestFormatBookingDate_UnpaddedHour(t *testing.T) {
	date := time.Date(2030, time.March, 5, 7, 5, 0, 0, time.UTC)

	pt := FormatBookingDate(date, "pt", time.UTC)
	if !strings.HasPrefix(pt, "05 de ") || !strings.HasSuffix(pt, ", às 7:05h") {
		t.Errorf("unexpected pt date %q", pt)
	}
}

func TestFormatBookingDate_ConvertsZone(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	date := time.Date(2030, time.March, 15, 13, 0, 0, 0, time.UTC)

	if got := FormatBookingDate(date, "en", loc); got != "March 15, at 10:00" {
		t.Errorf("got %q", got)
	}
}

func TestBookingMessage(t *testing.T) {
	date := time.Date(2030, time.March, 15, 9, 0, 0, 0, time.UTC)

	msg := BookingMessage("Diego", date, "pt", nil)
	if !strings.HasPrefix(msg, "Novo agendamento para Diego no dia 15 de ") {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.HasSuffix(msg, ", às 9:00h") {
		t.Errorf("hour should not be zero padded in %q", msg)
	}

	if got := BookingMessage("Diego", date, "de", nil); got != msg {
		t.Errorf("unknown locale should fall back to pt, got %q", got)
	}

	if got := BookingMessage("Diego", date, "en", nil); got != "New appointment for Diego on March 15, at 09:00" {
		t.Errorf("unexpected en message %q", got)
	}
}
