package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks calendar input the caller got wrong, as opposed to a
// storage failure.
var ErrInvalidDate = errors.New("invalid date")

// MonthRange returns the ISO date bounds [from, to) covering one calendar
// month. December rolls over into January of the next year.
func MonthRange(year, month int) (from, to string, err error) {
	if year < 1 || month < 1 || month > 12 {
		return "", "", fmt.Errorf("%w: year or month out of range", ErrInvalidDate)
	}

	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}

	from = fmt.Sprintf("%04d-%02d-01", year, month)
	to = fmt.Sprintf("%04d-%02d-01", nextYear, nextMonth)
	return from, to, nil
}

// DateString validates a year/month/day triple and returns it as YYYY-MM-DD.
func DateString(year, month, day int) (string, error) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", fmt.Errorf("%w: date parts out of range", ErrInvalidDate)
	}
	// Rejects overflow like Feb 30, which time.Date would silently normalize.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return "", fmt.Errorf("%w: no such day in month", ErrInvalidDate)
	}
	return d.Format("2006-01-02"), nil
}
