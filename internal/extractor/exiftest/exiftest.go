// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package exiftest builds small EXIF containers for tests.
//
// Fixtures are little-endian TIFF structures with an IFD0 (Make, DateTime,
// GPS pointer) and an optional GPS IFD. They can be wrapped in a minimal
// JPEG, PNG, WebP or HEIF container.
package exiftest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Rational is an unsigned EXIF rational.
type Rational struct {
	Num, Den uint32
}

// DMS is a degrees/minutes/seconds GPS coordinate.
type DMS [3]Rational

// Fixture describes the tags to write. Zero-valued fields are omitted.
type Fixture struct {
	// DateTime is the raw EXIF value, e.g. "2021:01:04 14:49:57".
	DateTime string

	Latitude     *DMS
	LatitudeRef  string
	Longitude    *DMS
	LongitudeRef string

	Altitude      *Rational
	BelowSeaLevel bool
}

// Coordinate returns a DMS with whole degrees and minutes and seconds given
// as a rational with denominator 1000.
func Coordinate(deg, minutes, secMillis uint32) *DMS {
	return &DMS{{deg, 1}, {minutes, 1}, {secMillis, 1000}}
}

const (
	typeByte     = 1
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5

	tagMake            = 0x010F
	tagDateTime        = 0x0132
	tagGPSPointer      = 0x8825
	tagGPSLatitudeRef  = 0x0001
	tagGPSLatitude     = 0x0002
	tagGPSLongitudeRef = 0x0003
	tagGPSLongitude    = 0x0004
	tagGPSAltitudeRef  = 0x0005
	tagGPSAltitude     = 0x0006
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

var le = binary.LittleEndian

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func rationals(tag uint16, rs ...Rational) entry {
	b := make([]byte, 0, 8*len(rs))
	for _, r := range rs {
		b = le.AppendUint32(b, r.Num)
		b = le.AppendUint32(b, r.Den)
	}
	return entry{tag: tag, typ: typeRational, count: uint32(len(rs)), data: b}
}

func (f Fixture) gpsEntries() []entry {
	var es []entry
	if f.LatitudeRef != "" {
		es = append(es, ascii(tagGPSLatitudeRef, f.LatitudeRef))
	}
	if f.Latitude != nil {
		es = append(es, rationals(tagGPSLatitude, f.Latitude[:]...))
	}
	if f.LongitudeRef != "" {
		es = append(es, ascii(tagGPSLongitudeRef, f.LongitudeRef))
	}
	if f.Longitude != nil {
		es = append(es, rationals(tagGPSLongitude, f.Longitude[:]...))
	}
	if f.Altitude != nil {
		ref := byte(0)
		if f.BelowSeaLevel {
			ref = 1
		}
		es = append(es, entry{tag: tagGPSAltitudeRef, typ: typeByte, count: 1, data: []byte{ref}})
		es = append(es, rationals(tagGPSAltitude, *f.Altitude))
	}
	return es
}

// TIFF returns the fixture as a standalone TIFF byte stream.
func (f Fixture) TIFF() []byte {
	ifd0 := []entry{ascii(tagMake, "Geoscan")}
	if f.DateTime != "" {
		ifd0 = append(ifd0, ascii(tagDateTime, f.DateTime))
	}
	gps := f.gpsEntries()
	if len(gps) > 0 {
		ifd0 = append(ifd0, entry{tag: tagGPSPointer, typ: typeLong, count: 1, data: make([]byte, 4)})
	}

	const ifd0Offset = 8
	gpsOffset := uint32(ifd0Offset + ifdSize(ifd0))
	if len(gps) > 0 {
		le.PutUint32(ifd0[len(ifd0)-1].data, gpsOffset)
	}

	out := []byte{'I', 'I', 0x2A, 0x00}
	out = le.AppendUint32(out, ifd0Offset)
	out = appendIFD(out, ifd0, ifd0Offset)
	if len(gps) > 0 {
		out = appendIFD(out, gps, gpsOffset)
	}
	return out
}

// JPEG returns the fixture wrapped in a minimal JPEG with an APP1 segment.
func (f Fixture) JPEG() []byte {
	payload := append([]byte("Exif\x00\x00"), f.TIFF()...)
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	out = binary.BigEndian.AppendUint16(out, uint16(len(payload)+2))
	out = append(out, payload...)
	return append(out, 0xFF, 0xD9)
}

func ifdSize(es []entry) int {
	n := 2 + 12*len(es) + 4
	for _, e := range es {
		if len(e.data) > 4 {
			n += padded(len(e.data))
		}
	}
	return n
}

func padded(n int) int {
	return n + n%2
}

func appendIFD(out []byte, es []entry, start uint32) []byte {
	extra := start + uint32(2+12*len(es)+4)
	var overflow []byte

	out = le.AppendUint16(out, uint16(len(es)))
	for _, e := range es {
		out = le.AppendUint16(out, e.tag)
		out = le.AppendUint16(out, e.typ)
		out = le.AppendUint32(out, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			out = append(out, inline...)
			continue
		}
		out = le.AppendUint32(out, extra+uint32(len(overflow)))
		overflow = append(overflow, e.data...)
		if len(e.data)%2 == 1 {
			overflow = append(overflow, 0)
		}
	}
	out = le.AppendUint32(out, 0)
	return append(out, overflow...)
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Hamburg is a fixture with every supported tag set.
func Hamburg() Fixture {
	return Fixture{
		DateTime:     "2021:01:04 14:49:57",
		Latitude:     Coordinate(53, 43, 23808),
		LatitudeRef:  "N",
		Longitude:    Coordinate(10, 0, 36000),
		LongitudeRef: "E",
		Altitude:     &Rational{27813, 1000},
	}
}
