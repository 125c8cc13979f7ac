// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// UTCNowAdd returns the current UTC time plus the given duration
func UTCNowAdd(d time.Duration) time.Time {
	return UTCNow().Add(d)
}

// IsExpired checks if the given time is in the past (expired)
func IsExpired(t time.Time) bool {
	return UTCNow().After(t)
}

// IstanbulNow returns the current time in the Europe/Istanbul timezone.
// Delivery dates and the market simulator schedule follow the factory's
// local calendar, not UTC.
func IstanbulNow() (time.Time, error) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}
