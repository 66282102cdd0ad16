// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errSimulated = errors.New("simulated failure")

// MockService blocks until cancelled unless told to fail.
type MockService struct {
	name   string
	starts atomic.Int32
	stops  atomic.Int32

	mu        sync.Mutex
	err       error
	failsLeft int
}

func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	defer m.stops.Add(1)

	if err := m.nextError(); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// nextError consumes one scripted failure, then falls back to the fixed error.
func (m *MockService) nextError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failsLeft > 0 {
		m.failsLeft--
		return errSimulated
	}
	return m.err
}

// SetError makes every Serve call return err immediately.
func (m *MockService) SetError(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// SetFailCount makes the next n Serve calls fail.
func (m *MockService) SetFailCount(n int) {
	m.mu.Lock()
	m.failsLeft = n
	m.mu.Unlock()
}

func (m *MockService) StartCount() int32 { return m.starts.Load() }
func (m *MockService) StopCount() int32  { return m.stops.Load() }
func (m *MockService) String() string    { return m.name }
