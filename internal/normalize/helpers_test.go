// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package normalize

import (
	"strconv"
)

func formatDMS(deg, minutes int, sec float32) string {
	return strconv.Itoa(deg) + " deg " + strconv.Itoa(minutes) + " min " +
		strconv.FormatFloat(float64(sec), 'f', -1, 32) + " sec N"
}
