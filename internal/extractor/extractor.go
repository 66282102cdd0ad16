// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package extractor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/models"
)

// Opener opens a file for reading.
type Opener func(path string) (io.ReadCloser, error)

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path) //nolint:gosec // paths come from the directory walk
}

// Extractor turns image files into records.
type Extractor struct {
	open Opener
}

// New creates an Extractor. A nil opener reads from the local filesystem.
func New(open Opener) *Extractor {
	if open == nil {
		open = openFile
	}
	return &Extractor{open: open}
}

var defaultExtractor = New(nil)

// Extract reads path from the local filesystem.
func Extract(path string) (*models.Record, error) {
	return defaultExtractor.Extract(path)
}

// Extract opens path, decodes its EXIF container and returns the normalized
// record.
//
// Failing to open or decode the file yields an Unreadable error. A capture
// time that is present but malformed yields a Normalization error. Missing
// tags are not errors.
func (e *Extractor) Extract(path string) (*models.Record, error) {
	x, err := e.decode(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Kind: Unreadable, Err: err}
	}

	rec := models.NewRecord(path)
	for kind := TagKind(0); kind < tagKindCount; kind++ {
		h := tagTable[kind]

		tag, err := x.Get(h.field)
		if err != nil {
			continue
		}

		display, err := h.render(x, tag)
		if err != nil {
			logging.Debug().Err(err).Str("path", path).Stringer("tag", kind).Msg("Tag value not renderable, ignoring")
			continue
		}

		if err := h.apply(rec, display); err != nil {
			return nil, &ExtractionError{Path: path, Kind: Normalization, Err: err}
		}
	}

	return rec, nil
}

// decode reads the EXIF block of a JPEG, TIFF, PNG, WebP or HEIF file.
// JPEG and TIFF go to goexif directly; the other containers are unpacked
// first.
func (e *Extractor) decode(path string) (*exif.Exif, error) {
	f, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, _ := br.Peek(sniffLen)

	var src io.Reader = br
	if format := sniffContainer(header); format != formatNative {
		block, err := locateEXIF(format, br, f)
		if err != nil {
			return nil, fmt.Errorf("%s container: %w", format, err)
		}
		src = bytes.NewReader(block)
	}

	x, err := exif.Decode(src)
	if err != nil {
		// A damaged sub-directory still leaves the primary tags usable.
		if x != nil && !exif.IsCriticalError(err) {
			logging.Debug().Err(err).Str("path", path).Msg("Partial EXIF decode")
			return x, nil
		}
		return nil, err
	}
	if x == nil {
		return nil, errNoExif
	}
	return x, nil
}
