// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package extractor

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/geoscan/internal/extractor/exiftest"
	"github.com/tomtom215/geoscan/internal/normalize"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) < 1e-4
}

func TestExtract_AllTags(t *testing.T) {
	t.Parallel()

	fx := exiftest.Hamburg()
	containers := []struct {
		ext  string
		data []byte
	}{
		{"tif", fx.TIFF()},
		{"jpg", fx.JPEG()},
		{"png", fx.PNG()},
		{"webp", fx.WebP()},
		{"heic", fx.HEIF()},
		{"media-first.heic", fx.HEIFMediaFirst()},
	}

	for _, c := range containers {
		t.Run(c.ext, func(t *testing.T) {
			t.Parallel()

			path := exiftest.WriteFile(t, t.TempDir(), "photo."+c.ext, c.data)

			rec, err := Extract(path)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if rec.Name != path || rec.Path != path {
				t.Errorf("name/path = %q/%q, want %q", rec.Name, rec.Path, path)
			}
			if !approxEqual(rec.Latitude, 53.72328) {
				t.Errorf("Latitude = %v, want 53.72328", rec.Latitude)
			}
			if !approxEqual(rec.Longitude, 10.01) {
				t.Errorf("Longitude = %v, want 10.01", rec.Longitude)
			}
			if !approxEqual(rec.Altitude, 27.813) {
				t.Errorf("Altitude = %v, want 27.813", rec.Altitude)
			}
			if rec.Timestamp != "2021-01-04T14:49:57+00:00" {
				t.Errorf("Timestamp = %q", rec.Timestamp)
			}
		})
	}
}

func TestExtract_NoRecognizedTags(t *testing.T) {
	t.Parallel()

	path := exiftest.WriteFile(t, t.TempDir(), "bare.tif", exiftest.Fixture{}.TIFF())

	rec, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Latitude != 0 || rec.Longitude != 0 || rec.Altitude != 0 {
		t.Errorf("expected zero coordinates, got %+v", rec)
	}
	if rec.Timestamp != "" {
		t.Errorf("expected empty timestamp, got %q", rec.Timestamp)
	}
	if rec.Path != path {
		t.Errorf("Path = %q, want %q", rec.Path, path)
	}
}

func TestExtract_SouthernHemisphereIsNotNegated(t *testing.T) {
	t.Parallel()

	fx := exiftest.Hamburg()
	fx.LatitudeRef = "S"
	fx.LongitudeRef = "W"
	fx.BelowSeaLevel = true
	path := exiftest.WriteFile(t, t.TempDir(), "south.jpg", fx.JPEG())

	rec, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Latitude <= 0 || rec.Longitude <= 0 || rec.Altitude <= 0 {
		t.Errorf("expected non-negative values, got %+v", rec)
	}
}

func TestExtract_PartialGPS(t *testing.T) {
	t.Parallel()

	fx := exiftest.Fixture{
		Latitude:    exiftest.Coordinate(48, 51, 29000),
		LatitudeRef: "N",
	}
	path := exiftest.WriteFile(t, t.TempDir(), "partial.tif", fx.TIFF())

	rec, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !approxEqual(rec.Latitude, 48+51.0/60+29.0/3600) {
		t.Errorf("Latitude = %v", rec.Latitude)
	}
	if rec.Longitude != 0 || rec.Altitude != 0 || rec.Timestamp != "" {
		t.Errorf("expected defaults for missing tags, got %+v", rec)
	}
}

func TestExtract_FractionalMinutesYieldZero(t *testing.T) {
	t.Parallel()

	// Some cameras store decimal minutes with seconds at zero.
	fx := exiftest.Fixture{
		Latitude:    &exiftest.DMS{{Num: 53, Den: 1}, {Num: 4350, Den: 100}, {Num: 0, Den: 1}},
		LatitudeRef: "N",
	}
	path := exiftest.WriteFile(t, t.TempDir(), "decimal.tif", fx.TIFF())

	rec, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Latitude != 0 {
		t.Errorf("Latitude = %v, want 0 for unreadable display value", rec.Latitude)
	}
}

func TestExtract_MalformedTimestamp(t *testing.T) {
	t.Parallel()

	fx := exiftest.Hamburg()
	fx.DateTime = "    :  :     :  :  "
	path := exiftest.WriteFile(t, t.TempDir(), "blank-date.jpg", fx.JPEG())

	rec, err := Extract(path)
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected *ExtractionError, got %T (%v)", err, err)
	}
	if extErr.Kind != Normalization {
		t.Errorf("Kind = %v, want normalization", extErr.Kind)
	}
	if !errors.Is(err, normalize.ErrInvalidTimestamp) {
		t.Errorf("expected ErrInvalidTimestamp in chain, got %v", err)
	}
}

func TestExtract_Unreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "does-not-exist.jpg")},
		{"empty file", exiftest.WriteFile(t, dir, "empty.jpg", nil)},
		{"text file", exiftest.WriteFile(t, dir, "notes.txt", []byte("not an image at all"))},
		{"truncated tiff", exiftest.WriteFile(t, dir, "short.tif", []byte{'I', 'I', 0x2A, 0x00, 0x08})},
		{"png without eXIf", exiftest.WriteFile(t, dir, "plain.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00IEND\xaeB`\x82"))},
		{"truncated png", exiftest.WriteFile(t, dir, "cut.png", exiftest.Hamburg().PNG()[:40])},
		{"webp without EXIF", exiftest.WriteFile(t, dir, "plain.webp", []byte("RIFF\x04\x00\x00\x00WEBP"))},
		{"heif without meta", exiftest.WriteFile(t, dir, "plain.heic", []byte("\x00\x00\x00\x10ftypheic\x00\x00\x00\x00"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := Extract(tt.path)
			if rec != nil {
				t.Errorf("expected nil record, got %+v", rec)
			}
			var extErr *ExtractionError
			if !errors.As(err, &extErr) {
				t.Fatalf("expected *ExtractionError, got %T (%v)", err, err)
			}
			if extErr.Kind != Unreadable {
				t.Errorf("Kind = %v, want unreadable", extErr.Kind)
			}
			if extErr.Path != tt.path {
				t.Errorf("Path = %q, want %q", extErr.Path, tt.path)
			}
		})
	}
}

func TestExtract_ContainersWithoutSeek(t *testing.T) {
	t.Parallel()

	fx := exiftest.Hamburg()
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"png", fx.PNG(), false},
		{"webp", fx.WebP(), false},
		{"heif", fx.HEIF(), false},
		// The item lies behind meta and a stream cannot go back for it.
		{"heif media first", fx.HEIFMediaFirst(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ex := New(func(string) (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(string(tt.data))), nil
			})

			rec, err := ex.Extract("stream/" + tt.name)
			if tt.wantErr {
				var extErr *ExtractionError
				if !errors.As(err, &extErr) || extErr.Kind != Unreadable {
					t.Fatalf("expected unreadable error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if rec.Timestamp != "2021-01-04T14:49:57+00:00" {
				t.Errorf("Timestamp = %q", rec.Timestamp)
			}
			if !approxEqual(rec.Latitude, 53.72328) {
				t.Errorf("Latitude = %v, want 53.72328", rec.Latitude)
			}
		})
	}
}

func TestExtract_CustomOpener(t *testing.T) {
	t.Parallel()

	data := exiftest.Hamburg().TIFF()
	var opened []string
	ex := New(func(path string) (io.ReadCloser, error) {
		opened = append(opened, path)
		return io.NopCloser(strings.NewReader(string(data))), nil
	})

	rec, err := ex.Extract("virtual/photo.tif")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(opened) != 1 || opened[0] != "virtual/photo.tif" {
		t.Errorf("opener calls = %v", opened)
	}
	if rec.Timestamp == "" {
		t.Error("expected timestamp from injected reader")
	}

	failing := New(func(string) (io.ReadCloser, error) { return nil, os.ErrPermission })
	_, err = failing.Extract("locked.jpg")
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected os.ErrPermission in chain, got %v", err)
	}
}

func TestTagKind(t *testing.T) {
	t.Parallel()

	want := map[TagKind]string{
		TagLatitude:  "GPSLatitude",
		TagLongitude: "GPSLongitude",
		TagAltitude:  "GPSAltitude",
		TagTimestamp: "DateTime",
	}
	for kind, field := range want {
		if got := string(kind.Field()); got != field {
			t.Errorf("%v.Field() = %q, want %q", kind, got, field)
		}
	}
	if TagKind(99).String() != "TagKind(99)" {
		t.Errorf("unexpected String for unknown kind: %s", TagKind(99))
	}
}

func TestExtractionError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &ExtractionError{Path: "/a.jpg", Kind: Unreadable, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose cause")
	}
	if got := err.Error(); got != "extract /a.jpg: unreadable: boom" {
		t.Errorf("Error() = %q", got)
	}
}
