// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLogger_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	wl := NewWatermillLoggerWith(zerolog.New(&buf))
	wl.Error("publish failed", errors.New("nats: timeout"), watermill.LogFields{"topic": "geoscan.exif"})

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"error":"nats: timeout"`, `"topic":"geoscan.exif"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestWatermillLogger_InfoDemoted(t *testing.T) {
	prev := GetLevel()
	SetLevelString("debug")
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	wl := NewWatermillLoggerWith(zerolog.New(&buf))
	wl.Info("connected", nil)

	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Errorf("expected info to be logged at debug, got: %s", buf.String())
	}
}

func TestWatermillLogger_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	wl := NewWatermillLoggerWith(zerolog.New(&buf)).With(watermill.LogFields{"publisher": "nats"})
	wl.Error("boom", errors.New("x"), nil)

	if !strings.Contains(buf.String(), `"publisher":"nats"`) {
		t.Errorf("expected inherited field, got: %s", buf.String())
	}
}
