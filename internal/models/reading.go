package models

import "time"

// SensorReading is one indoor temperature sample reported by a sensor.
// Year/Month/Day/Hour are derived from Bucket for the JSON surface; only
// Timestamp and Bucket are persisted.
type SensorReading struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Day         int       `json:"day"`
	Hour        int       `json:"hour"`
	IndoorTemp  float64   `json:"indoor_temp"`
	HeaterLevel int       `json:"heater_level"`
	FanLevel    int       `json:"fan_level"`
	CreatedAt   time.Time `json:"created_at"`

	Bucket time.Time `json:"-"` // Timestamp truncated to the hour, UTC
}

// SyncBucket recomputes Bucket from Timestamp and refreshes the derived
// calendar fields.
func (r *SensorReading) SyncBucket() {
	r.Timestamp = r.Timestamp.UTC()
	r.Bucket = HourBucket(r.Timestamp)
	r.Year, r.Month, r.Day, r.Hour = CalendarOf(r.Bucket)
}

// HourBucket truncates t to the start of its hour in UTC.
func HourBucket(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// CalendarOf splits a bucket into its calendar components.
func CalendarOf(t time.Time) (year, month, day, hour int) {
	t = t.UTC()
	return t.Year(), int(t.Month()), t.Day(), t.Hour()
}

// BucketFromCalendar rebuilds an hour bucket from calendar fields. The bool
// is false when the fields do not name a real instant (e.g. Feb 31).
func BucketFromCalendar(year, month, day, hour int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
	y, m, d, h := CalendarOf(t)
	if y != year || m != month || d != day || h != hour {
		return time.Time{}, false
	}
	return t, true
}
