package utils

import (
	"math"
	"time"

	"farmshare-backend/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the calendar-date format used for every stored date.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// RentalCost is the outcome of pricing a date range.
type RentalCost struct {
	TotalDays int32
	TotalCost int64
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewError(domain.KindInvalidRange, "invalid date %q: expected yyyy-mm-dd", s)
	}
	return t, nil
}

// FormatDate renders t as yyyy-mm-dd in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseRange parses both ends of a requested range and checks start <= end.
func ParseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidRange
	}
	return start, end, nil
}

// CheckAvailability validates a requested range against the item's
// availability window. It fails with InvalidRange when start is after end and
// with OutOfWindow when either end falls outside the window.
func CheckAvailability(start, end time.Time, item *domain.Equipment) error {
	if start.After(end) {
		return domain.ErrInvalidRange
	}

	from, err := ParseDate(item.AvailableFrom)
	if err != nil {
		return domain.CorruptState("equipment %s has invalid available_from %q", item.ID, item.AvailableFrom)
	}
	to, err := ParseDate(item.AvailableTo)
	if err != nil {
		return domain.CorruptState("equipment %s has invalid available_to %q", item.ID, item.AvailableTo)
	}

	if start.Before(from) || end.After(to) {
		return domain.NewError(domain.KindOutOfWindow,
			"equipment is only available from %s to %s", item.AvailableFrom, item.AvailableTo)
	}
	return nil
}

// CalculateRental prices a date range. The duration is the number of whole
// days between the dates, partial days rounded up, so end == start+1 day is a
// one-day rental. A same-day rental also counts as one day. It fails with
// InvalidInput when the rate is negative or the total does not fit in an
// int64.
func CalculateRental(start, end time.Time, dailyRate int64) (RentalCost, error) {
	if dailyRate < 0 {
		return RentalCost{}, domain.NewError(domain.KindInvalidInput, "daily rate must not be negative")
	}

	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}

	days := int64(diff / day)
	if diff%day != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	if days > math.MaxInt32 || (dailyRate > 0 && days > math.MaxInt64/dailyRate) {
		return RentalCost{}, domain.NewError(domain.KindInvalidInput,
			"rental of %d days at %d per day is too large to price", days, dailyRate)
	}

	return RentalCost{
		TotalDays: int32(days),
		TotalCost: days * dailyRate,
	}, nil
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with digit grouping for display, e.g. ₹3,000.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("₹%d", amount)
}
