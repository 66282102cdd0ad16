// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package exiftest

import (
	"encoding/binary"
	"hash/crc32"
)

var exifHeader = []byte("Exif\x00\x00")

// PNG returns the fixture as the eXIf chunk of a 1x1 PNG.
func (f Fixture) PNG() []byte {
	ihdr := []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 2, 0, 0, 0}

	out := []byte("\x89PNG\r\n\x1a\n")
	out = appendPNGChunk(out, "IHDR", ihdr)
	out = appendPNGChunk(out, "tEXt", []byte("Software\x00geoscan"))
	out = appendPNGChunk(out, "eXIf", f.TIFF())
	return appendPNGChunk(out, "IEND", nil)
}

func appendPNGChunk(out []byte, typ string, data []byte) []byte {
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	start := len(out)
	out = append(out, typ...)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[start:]))
}

// WebP returns the fixture as the EXIF chunk of an extended WebP. An
// odd-sized chunk precedes it so the reader has to honor RIFF padding.
func (f Fixture) WebP() []byte {
	vp8x := make([]byte, 10)
	vp8x[0] = 0x08 // EXIF present

	body := []byte("WEBP")
	body = appendRIFFChunk(body, "VP8X", vp8x)
	body = appendRIFFChunk(body, "ICCP", []byte{1, 2, 3})
	body = appendRIFFChunk(body, "EXIF", append(append([]byte{}, exifHeader...), f.TIFF()...))

	out := []byte("RIFF")
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

func appendRIFFChunk(out []byte, fourcc string, data []byte) []byte {
	out = append(out, fourcc...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, data...)
	if len(data)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

// HEIF returns the fixture as the Exif item of a minimal HEIC file laid
// out as ftyp, meta, mdat.
func (f Fixture) HEIF() []byte {
	return f.heif(false)
}

// HEIFMediaFirst is like HEIF but places mdat before meta, so the Exif item
// lies behind the box that describes it.
func (f Fixture) HEIFMediaFirst() []byte {
	return f.heif(true)
}

func (f Fixture) heif(mediaFirst bool) []byte {
	item := binary.BigEndian.AppendUint32(nil, uint32(len(exifHeader)))
	item = append(item, exifHeader...)
	item = append(item, f.TIFF()...)

	ftyp := isoBox("ftyp", []byte("heic\x00\x00\x00\x00mif1heic"))
	mdat := isoBox("mdat", item)
	metaLen := len(heifMeta(0, 0))

	if mediaFirst {
		offset := len(ftyp) + 8
		return concat(ftyp, mdat, heifMeta(uint32(offset), uint32(len(item))))
	}
	offset := len(ftyp) + metaLen + 8
	return concat(ftyp, heifMeta(uint32(offset), uint32(len(item))), mdat)
}

// heifMeta builds a meta box declaring item 1 as Exif at offset.
func heifMeta(offset, length uint32) []byte {
	hdlr := isoBox("hdlr", concat(
		make([]byte, 8), // version, flags, pre_defined
		[]byte("pict"),
		make([]byte, 12), // reserved
		[]byte{0},        // empty name
	))

	// infe version 2: item_ID, protection index, item_type, item_name.
	infe := isoBox("infe", []byte{2, 0, 0, 0, 0, 1, 0, 0, 'E', 'x', 'i', 'f', 0})
	iinf := isoBox("iinf", concat([]byte{0, 0, 0, 0, 0, 1}, infe))

	// iloc version 0 with 4-byte offsets and lengths, no base offset.
	loc := []byte{0, 0, 0, 0, 0x44, 0x00, 0, 1, 0, 1, 0, 0, 0, 1}
	loc = binary.BigEndian.AppendUint32(loc, offset)
	loc = binary.BigEndian.AppendUint32(loc, length)
	iloc := isoBox("iloc", loc)

	return isoBox("meta", concat([]byte{0, 0, 0, 0}, hdlr, iinf, iloc))
}

func isoBox(typ string, payload []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(8+len(payload)))
	out = append(out, typ...)
	return append(out, payload...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
