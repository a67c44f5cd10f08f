package util

import "time"

// ParseLocalDateTime parses a datetime-local form value like "2006-01-02T15:04"
// to a unix timestamp.
func ParseLocalDateTime(ts string) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02T15:04", ts, time.Local)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// FormatLocalDateTime is the inverse of ParseLocalDateTime.
func FormatLocalDateTime(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02T15:04")
}
