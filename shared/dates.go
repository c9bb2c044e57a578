package shared

import "time"

// Calendar dates are UTC date strings ("2006-01-02"); all day math in
// the engine goes through these helpers so local timezones never leak
// into streak arithmetic.

const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func Today() string {
	return FormatDate(time.Now())
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// AddDays shifts a date key by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// DaysBetween returns to minus from in whole days.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}
