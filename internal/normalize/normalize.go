// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidTimestamp is returned when a capture time is not in the
// "YYYY-MM-DD HH:MM:SS" form.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

const (
	timestampInputLayout  = "2006-01-02 15:04:05"
	timestampOutputLayout = "2006-01-02T15:04:05-07:00"
)

var (
	coordinatePattern = regexp.MustCompile(`^(\d+) deg (\d+) min (\d*[.]?\d+)`)
	altitudePattern   = regexp.MustCompile(`^(\d*[.]?\d+)`)

	// time.Parse accepts single-digit hours; the pattern pins every field width.
	timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
)

// ConvertCoordinate converts "53 deg 43 min 23.808 sec N" into decimal
// degrees. Input that does not start with the degrees/minutes/seconds form
// yields 0.
func ConvertCoordinate(raw string) float32 {
	m := coordinatePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	deg, ok1 := parseFloat32(m[1])
	minutes, ok2 := parseFloat32(m[2])
	sec, ok3 := parseFloat32(m[3])
	if !ok1 || !ok2 || !ok3 {
		return 0
	}
	return deg + minutes/60 + sec/3600
}

// ConvertAltitude reads the leading number of "27.813 m". When raw has no
// leading number, prior is returned unchanged.
func ConvertAltitude(raw string, prior float32) float32 {
	m := altitudePattern.FindStringSubmatch(raw)
	if m == nil {
		return prior
	}
	v, ok := parseFloat32(m[1])
	if !ok {
		return prior
	}
	return v
}

// ConvertTimestamp reads "2021-01-04 14:49:57" as UTC and renders it as
// "2021-01-04T14:49:57+00:00".
func ConvertTimestamp(raw string) (string, error) {
	if !timestampPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
	}
	ts, err := time.ParseInLocation(timestampInputLayout, raw, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, raw, err)
	}
	return ts.Format(timestampOutputLayout), nil
}

func parseFloat32(s string) (float32, bool) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}
