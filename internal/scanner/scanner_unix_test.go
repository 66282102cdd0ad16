// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

//go:build unix

package scanner

import (
	"context"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/tomtom215/geoscan/internal/extractor/exiftest"
)

func TestScan_SkipsNamedPipe(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "ok-1.jpg", "ok-3.jpg")
	fifo := filepath.Join(root, "ok-2.pipe")
	if err := syscall.Mkfifo(fifo, 0o644); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}

	stub := &stubExtractor{}
	msgs, err := New(stub).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{filepath.Join(root, "ok-1.jpg"), filepath.Join(root, "ok-3.jpg")}
	if got := keys(msgs); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("keys = %v, want %v", got, want)
	}
	for _, call := range stub.calls {
		if call == fifo {
			t.Error("extractor must not be called for a named pipe")
		}
	}
}

func TestScan_NamedPipeDoesNotBlock(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exiftest.WriteFile(t, root, "hamburg.jpg", exiftest.Hamburg().JPEG())
	if err := syscall.Mkfifo(filepath.Join(root, "pipe"), 0o644); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		msgs, err := Scan(context.Background(), root)
		done <- result{len(msgs), err}
	}()

	select {
	case res := <-done:
		if res.err != nil || res.n != 1 {
			t.Errorf("Scan = %d messages, %v; want 1, nil", res.n, res.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Scan blocked on a named pipe")
	}
}
