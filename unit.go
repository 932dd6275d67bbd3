package datemath

import (
	"math"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

// Unit is a date math time unit, from milliseconds up to years.
type Unit int

const (
	UnitMillisecond Unit = iota
	UnitSecond
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

var unitNames = [...]string{
	UnitMillisecond: "ms",
	UnitSecond:      "s",
	UnitMinute:      "m",
	UnitHour:        "h",
	UnitDay:         "d",
	UnitWeek:        "w",
	UnitMonth:       "M",
	UnitYear:        "y",
}

// Units returns every unit, smallest first.
func Units() []Unit {
	return []Unit{
		UnitMillisecond,
		UnitSecond,
		UnitMinute,
		UnitHour,
		UnitDay,
		UnitWeek,
		UnitMonth,
		UnitYear,
	}
}

// ParseUnit looks up a unit by its abbreviation. Abbreviations are case
// sensitive: "m" is a minute and "M" is a month.
func ParseUnit(s string) (Unit, bool) {
	for u, name := range unitNames {
		if name == s {
			return Unit(u), true
		}
	}
	return 0, false
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "Unit(?)"
	}
	return unitNames[u]
}

// fixed reports the exact length of units that never vary with the calendar.
func (u Unit) fixed() (time.Duration, bool) {
	switch u {
	case UnitMillisecond:
		return time.Millisecond, true
	case UnitSecond:
		return time.Second, true
	case UnitMinute:
		return time.Minute, true
	case UnitHour:
		return time.Hour, true
	}
	return 0, false
}

// maxCalendarYears bounds how far a day, week, month or year move may reach,
// keeping time.Date clear of wrapping.
const maxCalendarYears = 1_000_000_000

// calendarYears approximates the number of years n calendar units span.
func calendarYears(u Unit, n int) (years int, ok bool) {
	switch u {
	case UnitDay:
		return n / 365, true
	case UnitWeek:
		if n > math.MaxInt/7 || n < math.MinInt/7 {
			return 0, false
		}
		return 7 * n / 365, true
	case UnitMonth:
		return n / 12, true
	case UnitYear:
		return n, true
	}
	return 0, false
}

// shift moves t by n units. Month and year moves keep the day of month
// unless the target month is shorter, in which case they land on its last day.
func shift(t time.Time, u Unit, n int) (time.Time, error) {
	if d, ok := u.fixed(); ok {
		if int64(n) > math.MaxInt64/int64(d) || int64(n) < math.MinInt64/int64(d) {
			return time.Time{}, errors.Wrapf(ErrOverflow, "%d%s", n, u)
		}
		return t.Add(time.Duration(n) * d), nil
	}
	if u < UnitDay || u > UnitYear {
		return time.Time{}, errors.Wrapf(ErrUnit, "%s", u)
	}
	if years, ok := calendarYears(u, n); !ok || years > maxCalendarYears || years < -maxCalendarYears {
		return time.Time{}, errors.Wrapf(ErrOverflow, "%d%s", n, u)
	}
	switch u {
	case UnitDay:
		return t.AddDate(0, 0, n), nil
	case UnitWeek:
		return t.AddDate(0, 0, 7*n), nil
	case UnitMonth:
		return addMonths(t, n), nil
	default:
		return addMonths(t, 12*n), nil
	}
}

func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	first := time.Date(year, month+time.Month(n), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := now.With(first).EndOfMonth().Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// round snaps t to the first (or, with up set, the last) nanosecond of the
// unit containing it.
func round(t time.Time, u Unit, up bool, weekStart time.Weekday) (time.Time, error) {
	if d, ok := u.fixed(); ok && d < time.Minute {
		start := t.Truncate(d)
		if up {
			return start.Add(d - time.Nanosecond), nil
		}
		return start, nil
	}

	cal := (&now.Config{WeekStartDay: weekStart}).With(t)
	switch u {
	case UnitMinute:
		if up {
			return cal.EndOfMinute(), nil
		}
		return cal.BeginningOfMinute(), nil
	case UnitHour:
		// Step back by elapsed time so the repeated hour of a DST fall-back
		// resolves to the occurrence that contains t.
		start := t.Add(-(time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second +
			time.Duration(t.Nanosecond())))
		if up {
			return start.Add(time.Hour - time.Nanosecond), nil
		}
		return start, nil
	case UnitDay:
		if up {
			return cal.EndOfDay(), nil
		}
		return cal.BeginningOfDay(), nil
	case UnitWeek:
		if up {
			return cal.EndOfWeek(), nil
		}
		return cal.BeginningOfWeek(), nil
	case UnitMonth:
		if up {
			return cal.EndOfMonth(), nil
		}
		return cal.BeginningOfMonth(), nil
	case UnitYear:
		if up {
			return cal.EndOfYear(), nil
		}
		return cal.BeginningOfYear(), nil
	}
	return time.Time{}, errors.Wrapf(ErrUnit, "%s", u)
}
