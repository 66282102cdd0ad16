// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// MessageTag is the fixed domain tag attached to every published message.
// Downstream consumers filter on it.
const MessageTag = "exif_data"

// Record is the normalized metadata of one image file.
//
// Fields whose tag is missing from the file keep their zero value. Name and
// Path both hold the file path as given to the extractor.
type Record struct {
	Latitude  float32
	Longitude float32
	Altitude  float32
	Name      string
	Path      string

	// Timestamp is ISO-8601 with a +00:00 offset, or empty.
	Timestamp string
}

// NewRecord returns a record for path with every metadata field at its default.
func NewRecord(path string) *Record {
	return &Record{Name: path, Path: path}
}

// Body is the wire body of a published message.
//
// The JSON names match the coordinate recorder service that consumes the
// subject.
type Body struct {
	Latitude  float32 `json:"lat"`
	Longitude float32 `json:"long"`
	Altitude  float32 `json:"altitude"`
	Timestamp string  `json:"tmstmp"`
}

// Message is one outgoing broker message: the file path as key and the
// normalized metadata as body.
type Message struct {
	Key   string
	Value Body
}

// Serialize converts a record into its outgoing message.
func Serialize(rec *Record) Message {
	return Message{
		Key: rec.Path,
		Value: Body{
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Altitude:  rec.Altitude,
			Timestamp: rec.Timestamp,
		},
	}
}

// Payload returns the JSON encoding of the message body.
func (m Message) Payload() ([]byte, error) {
	data, err := json.Marshal(m.Value)
	if err != nil {
		return nil, fmt.Errorf("marshal body for %s: %w", m.Key, err)
	}
	return data, nil
}

// DecodeBody parses a payload produced by Message.Payload.
func DecodeBody(data []byte) (Body, error) {
	var b Body
	if err := json.Unmarshal(data, &b); err != nil {
		return Body{}, fmt.Errorf("unmarshal body: %w", err)
	}
	return b, nil
}
