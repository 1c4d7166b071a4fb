// Package localtime models the wall-clock instants attached to blood-pressure
// readings. Readings are recorded in a fixed local timezone, so an instant here
// is six civil components and nothing else: there is no epoch value, no UTC
// view, and no conversion to time.Time. Day keys derived from a Time can
// therefore never shift across midnight when the host runs in a different zone.
package localtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time is a timezone-naive wall-clock instant.
type Time struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// Date is the civil calendar date of an instant. It carries no time-of-day,
// so calendar arithmetic on it cannot move a reading to a different day.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ParseError describes a rejected timestamp string.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Raw, e.Reason)
}

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var longMonths = [...]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}

// Parse converts a "YYYY-MM-DD HH:MM:SS AM/PM" string into a Time.
// Seconds may be omitted. The meridiem is case-insensitive. The components are
// taken literally from the string; no timezone interpretation happens here.
func Parse(raw string) (Time, error) {
	fail := func(reason string) (Time, error) {
		return Time{}, &ParseError{Raw: raw, Reason: reason}
	}

	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return fail(fmt.Sprintf("expected 3 tokens (date, time, meridiem), got %d", len(fields)))
	}

	datePart, timePart, meridiem := fields[0], fields[1], fields[2]

	dateTokens := strings.Split(datePart, "-")
	if len(dateTokens) != 3 {
		return fail("date must have year, month and day")
	}
	year, err := atoiStrict(dateTokens[0])
	if err != nil {
		return fail("year is not numeric")
	}
	month, err := atoiStrict(dateTokens[1])
	if err != nil {
		return fail("month is not numeric")
	}
	day, err := atoiStrict(dateTokens[2])
	if err != nil {
		return fail("day is not numeric")
	}

	timeTokens := strings.Split(timePart, ":")
	if len(timeTokens) < 2 || len(timeTokens) > 3 {
		return fail("time must have at least hour and minute")
	}
	hour, err := atoiStrict(timeTokens[0])
	if err != nil {
		return fail("hour is not numeric")
	}
	minute, err := atoiStrict(timeTokens[1])
	if err != nil {
		return fail("minute is not numeric")
	}
	second := 0
	if len(timeTokens) == 3 {
		second, err = atoiStrict(timeTokens[2])
		if err != nil {
			return fail("second is not numeric")
		}
	}

	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		return fail(fmt.Sprintf("unknown meridiem %q", meridiem))
	}

	t := Time{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}
	if reason, ok := t.validate(); !ok {
		return fail(reason)
	}
	return t, nil
}

func atoiStrict(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.Atoi(s)
}

func (t Time) validate() (string, bool) {
	if t.Year < 1 || t.Year > 9999 {
		return fmt.Sprintf("year %d out of range", t.Year), false
	}
	if t.Month < 1 || t.Month > 12 {
		return fmt.Sprintf("month %d out of range", t.Month), false
	}
	if t.Day < 1 || t.Day > daysInMonth(t.Year, t.Month) {
		return fmt.Sprintf("day %d invalid for %04d-%02d", t.Day, t.Year, t.Month), false
	}
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Sprintf("hour %d out of range", t.Hour), false
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Sprintf("minute %d out of range", t.Minute), false
	}
	if t.Second < 0 || t.Second > 59 {
		return fmt.Sprintf("second %d out of range", t.Second), false
	}
	return "", true
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeap(year) {
			return 29
		}
		return 28
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DayKey returns the canonical "YYYY-MM-DD" grouping key for the instant's
// calendar day. Zero-padded, so lexicographic order equals chronological order.
func (t Time) DayKey() string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day)
}

// Date returns the civil calendar date of the instant.
func (t Time) Date() Date {
	return Date{Year: t.Year, Month: t.Month, Day: t.Day}
}

// IsZero reports whether t is the zero instant.
func (t Time) IsZero() bool {
	return t == Time{}
}

// Compare orders two instants chronologically: -1, 0 or +1.
func (t Time) Compare(o Time) int {
	a := [6]int{t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second}
	b := [6]int{o.Year, o.Month, o.Day, o.Hour, o.Minute, o.Second}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Before reports whether t is chronologically before o.
func (t Time) Before(o Time) bool { return t.Compare(o) < 0 }

// After reports whether t is chronologically after o.
func (t Time) After(o Time) bool { return t.Compare(o) > 0 }

// String renders the canonical 24-hour form, e.g. "2026-01-15 23:45:00".
func (t Time) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// AxisLabel renders the short chart-axis form, e.g. "15-Jan".
func (t Time) AxisLabel() string {
	return fmt.Sprintf("%02d-%s", t.Day, shortMonths[t.Month-1])
}

// TooltipLabel renders the long display form, e.g. "January 15, 2026 11:45:00 pm".
func (t Time) TooltipLabel() string {
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour >= 12 {
		meridiem = "pm"
	}
	return fmt.Sprintf("%s %d, %d %d:%02d:%02d %s", longMonths[t.Month-1], t.Day, t.Year, hour, t.Minute, t.Second, meridiem)
}

// MarshalJSON emits the canonical string form.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts the canonical "YYYY-MM-DD HH:MM:SS" string form.
func (t *Time) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := parseCanonical(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func parseCanonical(s string) (Time, error) {
	var t Time
	_, err := fmt.Sscanf(s, "%04d-%02d-%02d %02d:%02d:%02d", &t.Year, &t.Month, &t.Day, &t.Hour, &t.Minute, &t.Second)
	if err != nil {
		return Time{}, &ParseError{Raw: s, Reason: "not in canonical form"}
	}
	if reason, ok := t.validate(); !ok {
		return Time{}, &ParseError{Raw: s, Reason: reason}
	}
	return t, nil
}

// DayKey returns the "YYYY-MM-DD" key for the date.
func (d Date) DayKey() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare orders two civil dates: -1, 0 or +1.
func (d Date) Compare(o Date) int {
	a := [3]int{d.Year, d.Month, d.Day}
	b := [3]int{o.Year, o.Month, o.Day}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Before reports whether d falls before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d falls after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// AddDays returns the date n calendar days away (n may be negative).
func (d Date) AddDays(n int) Date {
	day := d.Day + n
	year, month := d.Year, d.Month
	for day > daysInMonth(year, month) {
		day -= daysInMonth(year, month)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	for day < 1 {
		month--
		if month < 1 {
			month = 12
			year--
		}
		day += daysInMonth(year, month)
	}
	return Date{Year: year, Month: month, Day: day}
}

// Weekday returns the day of week (Sunday = 0). Pure calendar arithmetic;
// the UTC location below is only a placeholder required by the time API.
func (d Date) Weekday() int {
	return int(time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Weekday())
}

// DaysBetween returns the number of calendar days from a to b (positive when
// b is later, 0 when they are the same day). Pure calendar arithmetic, same
// placeholder-location trick as Weekday.
func DaysBetween(a, b Date) int {
	ta := time.Date(a.Year, time.Month(a.Month), a.Day, 0, 0, 0, 0, time.UTC)
	tb := time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	return int(tb.Sub(ta).Hours() / 24)
}

// AxisLabel renders the short chart-axis form for a date, e.g. "15-Jan".
func (d Date) AxisLabel() string {
	return fmt.Sprintf("%02d-%s", d.Day, shortMonths[d.Month-1])
}

// MonthLabel renders the month bucket form, e.g. "Jan 2026".
func (d Date) MonthLabel() string {
	return fmt.Sprintf("%s %d", shortMonths[d.Month-1], d.Year)
}
