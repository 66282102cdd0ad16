// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package extractor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/tomtom215/geoscan/internal/models"
	"github.com/tomtom215/geoscan/internal/normalize"
)

// TagKind is the closed set of EXIF tags the extractor reads.
type TagKind int

const (
	TagLatitude TagKind = iota
	TagLongitude
	TagAltitude
	TagTimestamp

	tagKindCount
)

func (k TagKind) String() string {
	switch k {
	case TagLatitude:
		return "latitude"
	case TagLongitude:
		return "longitude"
	case TagAltitude:
		return "altitude"
	case TagTimestamp:
		return "timestamp"
	default:
		return "TagKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Field returns the EXIF field the kind is read from.
func (k TagKind) Field() exif.FieldName {
	return tagTable[k].field
}

type tagHandler struct {
	field exif.FieldName

	// render produces the display value including its unit.
	render func(x *exif.Exif, tag *tiff.Tag) (string, error)

	// apply normalizes the display value into rec.
	apply func(rec *models.Record, display string) error
}

var tagTable = [tagKindCount]tagHandler{
	TagLatitude: {
		field:  exif.GPSLatitude,
		render: renderDMS(exif.GPSLatitudeRef),
		apply: func(rec *models.Record, display string) error {
			rec.Latitude = normalize.ConvertCoordinate(display)
			return nil
		},
	},
	TagLongitude: {
		field:  exif.GPSLongitude,
		render: renderDMS(exif.GPSLongitudeRef),
		apply: func(rec *models.Record, display string) error {
			rec.Longitude = normalize.ConvertCoordinate(display)
			return nil
		},
	},
	TagAltitude: {
		field:  exif.GPSAltitude,
		render: renderAltitude,
		apply: func(rec *models.Record, display string) error {
			rec.Altitude = normalize.ConvertAltitude(display, rec.Altitude)
			return nil
		},
	},
	TagTimestamp: {
		field:  exif.DateTime,
		render: renderDateTime,
		apply: func(rec *models.Record, display string) error {
			ts, err := normalize.ConvertTimestamp(display)
			if err != nil {
				return err
			}
			rec.Timestamp = ts
			return nil
		},
	},
}

var errZeroDenominator = errors.New("rational with zero denominator")

// renderDMS formats a three-rational GPS coordinate as
// "D deg M min S sec REF". The reference letter is omitted when the
// companion ref tag is absent.
func renderDMS(refField exif.FieldName) func(*exif.Exif, *tiff.Tag) (string, error) {
	return func(x *exif.Exif, tag *tiff.Tag) (string, error) {
		if tag.Count < 3 {
			return "", fmt.Errorf("expected 3 rationals, got %d", tag.Count)
		}
		parts := make([]string, 3)
		for i := range parts {
			s, err := ratString(tag, i)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		display := parts[0] + " deg " + parts[1] + " min " + parts[2] + " sec"
		if ref := stringField(x, refField); ref != "" {
			display += " " + ref
		}
		return display, nil
	}
}

// renderAltitude formats GPSAltitude as "X m", with " below sea level"
// appended when GPSAltitudeRef is 1.
func renderAltitude(x *exif.Exif, tag *tiff.Tag) (string, error) {
	s, err := ratString(tag, 0)
	if err != nil {
		return "", err
	}
	display := s + " m"
	if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if v, err := ref.Int(0); err == nil && v == 1 {
			display += " below sea level"
		}
	}
	return display, nil
}

// renderDateTime turns the EXIF "YYYY:MM:DD HH:MM:SS" form into
// "YYYY-MM-DD HH:MM:SS". Values that do not have the EXIF shape are
// returned as stored.
func renderDateTime(_ *exif.Exif, tag *tiff.Tag) (string, error) {
	raw, err := tag.StringVal()
	if err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	if len(raw) >= 10 && raw[4] == ':' && raw[7] == ':' {
		raw = raw[:4] + "-" + raw[5:7] + "-" + raw[8:]
	}
	return raw, nil
}

func ratString(tag *tiff.Tag, i int) (string, error) {
	num, den, err := tag.Rat2(i)
	if err != nil {
		return "", err
	}
	if den == 0 {
		return "", errZeroDenominator
	}
	if num%den == 0 {
		return strconv.FormatInt(num/den, 10), nil
	}
	return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64), nil
}

func stringField(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
