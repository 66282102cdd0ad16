// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package extractor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// containerFormat is an image container whose EXIF block goexif cannot
// find on its own. JPEG and TIFF are handed to goexif unchanged.
type containerFormat int

const (
	formatNative containerFormat = iota
	formatPNG
	formatWebP
	formatHEIF
)

func (f containerFormat) String() string {
	switch f {
	case formatPNG:
		return "png"
	case formatWebP:
		return "webp"
	case formatHEIF:
		return "heif"
	default:
		return "native"
	}
}

const (
	sniffLen = 12

	// maxExifBlock bounds a single EXIF payload read into memory.
	maxExifBlock = 16 << 20
	// maxMetaBox bounds the HEIF meta box read into memory.
	maxMetaBox = 16 << 20
)

var (
	errNoExif       = errors.New("no EXIF data")
	errTruncatedBox = errors.New("truncated box")

	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	exifHeader   = []byte("Exif\x00\x00")

	heifBrands = map[string]bool{
		"heic": true, "heix": true, "heim": true, "heis": true,
		"hevc": true, "hevx": true, "mif1": true, "msf1": true, "avif": true,
	}
)

func sniffContainer(header []byte) containerFormat {
	switch {
	case bytes.HasPrefix(header, pngSignature):
		return formatPNG
	case len(header) >= sniffLen && string(header[:4]) == "RIFF" && string(header[8:12]) == "WEBP":
		return formatWebP
	case len(header) >= sniffLen && string(header[4:8]) == "ftyp" && heifBrands[string(header[8:12])]:
		return formatHEIF
	default:
		return formatNative
	}
}

// locateEXIF returns the TIFF-structured EXIF block of a PNG, WebP or HEIF
// file. br reads the file from its first byte. raw is the underlying file;
// HEIF items are read through it directly when it can seek.
func locateEXIF(format containerFormat, br *bufio.Reader, raw io.Reader) ([]byte, error) {
	switch format {
	case formatPNG:
		return pngEXIF(br)
	case formatWebP:
		return webpEXIF(br)
	case formatHEIF:
		return heifEXIF(&offsetReader{r: br}, raw)
	default:
		return nil, fmt.Errorf("unsupported container %s", format)
	}
}

// pngEXIF walks the chunk list up to IEND looking for eXIf.
func pngEXIF(r io.Reader) ([]byte, error) {
	if _, err := io.CopyN(io.Discard, r, int64(len(pngSignature))); err != nil {
		return nil, err
	}
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, endOfContainer(err)
		}
		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		switch string(hdr[4:8]) {
		case "eXIf":
			block, err := readBlock(r, size)
			if err != nil {
				return nil, err
			}
			return bytes.TrimPrefix(block, exifHeader), nil
		case "IEND":
			return nil, errNoExif
		}
		// Chunk data plus CRC.
		if _, err := io.CopyN(io.Discard, r, size+4); err != nil {
			return nil, endOfContainer(err)
		}
	}
}

// webpEXIF walks the RIFF chunks after the WEBP form type.
func webpEXIF(r io.Reader) ([]byte, error) {
	if _, err := io.CopyN(io.Discard, r, sniffLen); err != nil {
		return nil, err
	}
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, endOfContainer(err)
		}
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))
		if string(hdr[:4]) == "EXIF" {
			block, err := readBlock(r, size)
			if err != nil {
				return nil, err
			}
			return bytes.TrimPrefix(block, exifHeader), nil
		}
		// Chunks are padded to an even size.
		if _, err := io.CopyN(io.Discard, r, size+(size&1)); err != nil {
			return nil, endOfContainer(err)
		}
	}
}

// heifEXIF finds the top-level meta box, resolves the Exif item through
// iinf and iloc, and reads the item's extents.
func heifEXIF(r *offsetReader, raw io.Reader) ([]byte, error) {
	for {
		typ, size, err := readBoxHeader(r)
		if err != nil {
			return nil, endOfContainer(err)
		}
		if typ == "meta" {
			if size < 0 || size > maxMetaBox {
				return nil, fmt.Errorf("meta box size %d out of range", size)
			}
			meta := make([]byte, size)
			if _, err := io.ReadFull(r, meta); err != nil {
				return nil, err
			}
			extents, err := exifItemExtents(meta)
			if err != nil {
				return nil, err
			}
			item, err := readExtents(r, raw, extents)
			if err != nil {
				return nil, err
			}
			return exifItemPayload(item)
		}
		if size < 0 {
			return nil, errNoExif
		}
		if _, err := io.CopyN(io.Discard, r, size); err != nil {
			return nil, endOfContainer(err)
		}
	}
}

// readBoxHeader returns the box type and payload size. A size of -1 means
// the box runs to the end of the file.
func readBoxHeader(r io.Reader) (string, int64, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return "", 0, err
	}
	typ := string(hdr[4:8])
	size := uint64(binary.BigEndian.Uint32(hdr[:4]))
	headerLen := uint64(8)

	switch size {
	case 0:
		return typ, -1, nil
	case 1:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return "", 0, err
		}
		size = binary.BigEndian.Uint64(ext[:])
		headerLen = 16
	}
	if size < headerLen || size-headerLen > 1<<62 {
		return "", 0, fmt.Errorf("box %q: invalid size %d", typ, size)
	}
	return typ, int64(size - headerLen), nil
}

type extent struct {
	offset int64
	length int64
}

// exifItemExtents parses the meta box payload (after its full-box header).
func exifItemExtents(meta []byte) ([]extent, error) {
	if len(meta) < 4 {
		return nil, errTruncatedBox
	}
	children := meta[4:]

	iinf, err := findBox(children, "iinf")
	if err != nil {
		return nil, err
	}
	id, err := exifItemID(iinf)
	if err != nil {
		return nil, err
	}
	iloc, err := findBox(children, "iloc")
	if err != nil {
		return nil, err
	}
	return itemExtents(iloc, id)
}

// findBox returns the payload of the first box of type want in b.
func findBox(b []byte, want string) ([]byte, error) {
	for len(b) >= 8 {
		size := uint64(binary.BigEndian.Uint32(b[:4]))
		typ := string(b[4:8])
		headerLen := uint64(8)
		switch size {
		case 0:
			size = uint64(len(b))
		case 1:
			if len(b) < 16 {
				return nil, errTruncatedBox
			}
			size = binary.BigEndian.Uint64(b[8:16])
			headerLen = 16
		}
		if size < headerLen || size > uint64(len(b)) {
			return nil, fmt.Errorf("box %q: invalid size %d", typ, size)
		}
		if typ == want {
			return b[headerLen:size], nil
		}
		b = b[size:]
	}
	return nil, fmt.Errorf("no %s box", want)
}

// exifItemID returns the ID of the first item of type Exif.
func exifItemID(iinf []byte) (uint32, error) {
	c := &cursor{b: iinf}
	version := c.u8()
	c.skip(3)
	var count uint32
	if version == 0 {
		count = uint32(c.u16())
	} else {
		count = c.u32()
	}
	if c.err != nil {
		return 0, c.err
	}

	entries := c.b
	for i := uint32(0); i < count; i++ {
		infe, rest, err := nextBox(entries, "infe")
		if err != nil {
			return 0, err
		}
		entries = rest
		if id, typ, ok := parseInfe(infe); ok && typ == "Exif" {
			return id, nil
		}
	}
	return 0, errNoExif
}

// nextBox splits the leading box of type want from b.
func nextBox(b []byte, want string) (payload, rest []byte, err error) {
	if len(b) < 8 {
		return nil, nil, errTruncatedBox
	}
	size := uint64(binary.BigEndian.Uint32(b[:4]))
	if size < 8 || size > uint64(len(b)) {
		return nil, nil, fmt.Errorf("box %q: invalid size %d", b[4:8], size)
	}
	if typ := string(b[4:8]); typ != want {
		return nil, nil, fmt.Errorf("expected %s box, found %s", want, typ)
	}
	return b[8:size], b[size:], nil
}

// parseInfe reads item_ID and item_type from an infe box of version 2 or 3.
// Earlier versions carry no item type.
func parseInfe(b []byte) (uint32, string, bool) {
	c := &cursor{b: b}
	version := c.u8()
	c.skip(3)
	if version < 2 {
		return 0, "", false
	}
	var id uint32
	if version == 2 {
		id = uint32(c.u16())
	} else {
		id = c.u32()
	}
	c.u16() // item_protection_index
	typ := c.take(4)
	if c.err != nil {
		return 0, "", false
	}
	return id, string(typ), true
}

// itemExtents returns the file extents of item id from an iloc box.
func itemExtents(iloc []byte, id uint32) ([]extent, error) {
	c := &cursor{b: iloc}
	version := c.u8()
	c.skip(3)
	if version > 2 {
		return nil, fmt.Errorf("unsupported iloc version %d", version)
	}

	sizes := c.u8()
	offsetSize, lengthSize := int(sizes>>4), int(sizes&0x0f)
	sizes = c.u8()
	baseOffsetSize, indexSize := int(sizes>>4), 0
	if version > 0 {
		indexSize = int(sizes & 0x0f)
	}

	var count uint32
	if version < 2 {
		count = uint32(c.u16())
	} else {
		count = c.u32()
	}

	for i := uint32(0); i < count && c.err == nil; i++ {
		var itemID uint32
		if version < 2 {
			itemID = uint32(c.u16())
		} else {
			itemID = c.u32()
		}
		method := 0
		if version > 0 {
			method = int(c.u16() & 0x0f)
		}
		c.u16() // data_reference_index
		base := c.sized(baseOffsetSize)

		n := int(c.u16())
		var extents []extent
		for j := 0; j < n && c.err == nil; j++ {
			c.sized(indexSize)
			off := base + c.sized(offsetSize)
			length := c.sized(lengthSize)
			// Values above MaxInt64 wrap negative and fail the check below.
			extents = append(extents, extent{offset: int64(off), length: int64(length)})
		}
		if c.err != nil || itemID != id {
			continue
		}
		if method != 0 {
			return nil, fmt.Errorf("item %d: construction method %d not supported", id, method)
		}
		if len(extents) == 0 {
			return nil, fmt.Errorf("item %d has no extents", id)
		}
		for _, e := range extents {
			if e.offset < 0 || e.length <= 0 || e.length > maxExifBlock {
				return nil, fmt.Errorf("item %d: extent %d+%d out of range", id, e.offset, e.length)
			}
		}
		return extents, nil
	}
	if c.err != nil {
		return nil, c.err
	}
	return nil, fmt.Errorf("no location for item %d", id)
}

// readExtents concatenates the extents of an item. A seekable file is read
// at each offset directly; otherwise extents must lie ahead of r.
func readExtents(r *offsetReader, raw io.Reader, extents []extent) ([]byte, error) {
	var total int64
	for _, e := range extents {
		total += e.length
		if total > maxExifBlock {
			return nil, fmt.Errorf("exif item larger than %d bytes", maxExifBlock)
		}
	}

	item := make([]byte, 0, total)
	seeker, canSeek := raw.(io.ReadSeeker)
	for _, e := range extents {
		chunk := make([]byte, e.length)
		if canSeek {
			if _, err := seeker.Seek(e.offset, io.SeekStart); err != nil {
				return nil, err
			}
			if _, err := io.ReadFull(seeker, chunk); err != nil {
				return nil, err
			}
		} else {
			if err := r.skipTo(e.offset); err != nil {
				return nil, err
			}
			if _, err := io.ReadFull(r, chunk); err != nil {
				return nil, err
			}
		}
		item = append(item, chunk...)
	}
	return item, nil
}

// exifItemPayload strips the 4-byte TIFF header offset that prefixes a
// HEIF Exif item.
func exifItemPayload(item []byte) ([]byte, error) {
	if len(item) < 4 {
		return nil, errTruncatedBox
	}
	skip := uint64(binary.BigEndian.Uint32(item[:4]))
	body := item[4:]
	if skip > uint64(len(body)) {
		return nil, fmt.Errorf("exif item header offset %d beyond item", skip)
	}
	return bytes.TrimPrefix(body[skip:], exifHeader), nil
}

func readBlock(r io.Reader, size int64) ([]byte, error) {
	if size <= 0 || size > maxExifBlock {
		return nil, fmt.Errorf("exif block size %d out of range", size)
	}
	block := make([]byte, size)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, err
	}
	return block, nil
}

// endOfContainer maps running off the end of a container to errNoExif.
func endOfContainer(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errNoExif
	}
	return err
}

// offsetReader tracks the absolute position of a forward-only reader.
type offsetReader struct {
	r   io.Reader
	pos int64
}

func (o *offsetReader) Read(p []byte) (int, error) {
	n, err := o.r.Read(p)
	o.pos += int64(n)
	return n, err
}

func (o *offsetReader) skipTo(off int64) error {
	if off < o.pos {
		return fmt.Errorf("offset %d precedes read position %d", off, o.pos)
	}
	_, err := io.CopyN(io.Discard, o, off-o.pos)
	return err
}

// cursor reads big-endian fields from a box payload. The first short read
// sets err and every later read returns zero.
type cursor struct {
	b   []byte
	err error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n > len(c.b) {
		c.err = errTruncatedBox
		return nil
	}
	out := c.b[:n]
	c.b = c.b[n:]
	return out
}

func (c *cursor) skip(n int) { c.take(n) }

func (c *cursor) u8() uint8 {
	if p := c.take(1); p != nil {
		return p[0]
	}
	return 0
}

func (c *cursor) u16() uint16 {
	if p := c.take(2); p != nil {
		return binary.BigEndian.Uint16(p)
	}
	return 0
}

func (c *cursor) u32() uint32 {
	if p := c.take(4); p != nil {
		return binary.BigEndian.Uint32(p)
	}
	return 0
}

// sized reads an iloc field of 0, 4 or 8 bytes.
func (c *cursor) sized(size int) uint64 {
	switch size {
	case 0:
		return 0
	case 4:
		return uint64(c.u32())
	case 8:
		if p := c.take(8); p != nil {
			return binary.BigEndian.Uint64(p)
		}
		return 0
	default:
		if c.err == nil {
			c.err = fmt.Errorf("unsupported iloc field size %d", size)
		}
		return 0
	}
}
