package domain

import (
	"cmp"
	"strconv"
	"time"
)

// TimeLayout is the capture timestamp layout (DD-MM-YYYY HH:MM:SS).
const TimeLayout = "02-01-2006 15:04:05"

// DefaultUTCOffset is the fixed offset applied to capture timestamps.
const DefaultUTCOffset = 2 * time.Hour

// Reading is one validated sensor sample.
// It is only ever populated from a frame that parsed completely.
type Reading struct {
	// Temperature in degrees Celsius
	Temperature int8

	// Humidity in percent. Values above 100 are kept as reported.
	Humidity uint8

	// CapturedAt is the capture time formatted with TimeLayout
	CapturedAt string
}

// Zone returns the fixed time zone for the given UTC offset.
func Zone(offset time.Duration) *time.Location {
	return time.FixedZone("UTC"+formatOffset(offset), int(offset/time.Second))
}

func formatOffset(offset time.Duration) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	if m == 0 {
		return sign + strconv.Itoa(h)
	}
	return sign + strconv.Itoa(h) + ":" + strconv.Itoa(m)
}

// Touch refreshes the capture timestamp from t in the given zone.
func (r *Reading) Touch(t time.Time, loc *time.Location) {
	r.CapturedAt = t.In(loc).Format(TimeLayout)
}

// Update replaces both measured fields at once.
func (r *Reading) Update(temperature int8, humidity uint8) {
	r.Temperature = temperature
	r.Humidity = humidity
}

// Record returns the three tabular fields: temperature, humidity, timestamp.
func (r Reading) Record() []string {
	return []string{
		strconv.Itoa(int(r.Temperature)),
		strconv.Itoa(int(r.Humidity)),
		r.CapturedAt,
	}
}

// Compare orders readings by temperature, then humidity, then timestamp string.
func Compare(a, b Reading) int {
	if c := cmp.Compare(a.Temperature, b.Temperature); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Humidity, b.Humidity); c != 0 {
		return c
	}
	return cmp.Compare(a.CapturedAt, b.CapturedAt)
}

// SharesField reports whether a and b tie on temperature OR on humidity.
// Readings with different timestamps and one differing field still match.
func SharesField(a, b Reading) bool {
	return a.Temperature == b.Temperature || a.Humidity == b.Humidity
}

// Identical reports whether all three fields are equal.
func Identical(a, b Reading) bool {
	return a == b
}
