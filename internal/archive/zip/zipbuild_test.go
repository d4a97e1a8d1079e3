package zip

import (
	"bytes"
	"encoding/binary"
)

// testEntry describes one member of a synthetically built archive.
// Only the metadata the parser actually decodes is modeled; file data
// is never compressed (stored) and content is irrelevant since this
// package never reads entry bodies.
type testEntry struct {
	name        string
	data        []byte
	forceZip64  bool // write sentinel sizes in the fixed header, real values in a zip64 extra field
	cp437       bool // false: GPB bit 11 set (UTF-8 name); true: raw bytes, no bit 11
}

type buildOpts struct {
	forceZip64Eocd bool   // classic EOCD carries sentinel cd_size/num_records; real values via Locator+EOCD64
	trailingComment []byte // EOCD comment, to exercise the backward-scan window sizing
}

// buildZip assembles local headers + data + central directory + EOCD
// (and, if requested, ZIP64 EOCD Locator/EOCD64) into one byte slice,
// exactly mirroring the on-disk layout the parser is built against.
func buildZip(entries []testEntry, opts buildOpts) []byte {
	var buf bytes.Buffer

	type placed struct {
		entry  testEntry
		offset uint32
	}
	placedEntries := make([]placed, 0, len(entries))

	for _, e := range entries {
		offset := uint32(buf.Len())
		gpb := uint16(0)
		if !e.cp437 {
			gpb |= gpbUTF8Flag
		}
		// Local file header: magic, version, gpb, method, time, date,
		// crc32, compressed size, uncompressed size, name len, extra len.
		writeLE32(&buf, 0x04034b50)
		writeLE16(&buf, 20)
		writeLE16(&buf, gpb)
		writeLE16(&buf, 0)
		writeLE16(&buf, 0)
		writeLE16(&buf, 0)
		writeLE32(&buf, 0)
		writeLE32(&buf, uint32(len(e.data)))
		writeLE32(&buf, uint32(len(e.data)))
		writeLE16(&buf, uint16(len(e.name)))
		writeLE16(&buf, 0)
		buf.WriteString(e.name)
		buf.Write(e.data)

		placedEntries = append(placedEntries, placed{entry: e, offset: offset})
	}

	cdStart := uint32(buf.Len())
	for _, p := range placedEntries {
		e := p.entry
		gpb := uint16(0)
		if !e.cp437 {
			gpb |= gpbUTF8Flag
		}

		var extra bytes.Buffer
		compSize, uncompSize, localOff := uint32(len(e.data)), uint32(len(e.data)), p.offset
		if e.forceZip64 {
			var zip64Data bytes.Buffer
			writeLE64(&zip64Data, uint64(len(e.data))) // uncompressed
			writeLE64(&zip64Data, uint64(len(e.data))) // compressed
			writeLE64(&zip64Data, uint64(p.offset))    // local header offset
			writeLE16(&extra, zip64ExtraFieldTag)
			writeLE16(&extra, uint16(zip64Data.Len()))
			extra.Write(zip64Data.Bytes())
			compSize, uncompSize, localOff = 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF
		}

		writeLE32(&buf, magicCentralDirEntry)
		writeLE16(&buf, 20)
		writeLE16(&buf, 20)
		writeLE16(&buf, gpb)
		writeLE16(&buf, 0)
		writeLE16(&buf, 0)
		writeLE16(&buf, 0)
		writeLE32(&buf, 0)
		writeLE32(&buf, compSize)
		writeLE32(&buf, uncompSize)
		writeLE16(&buf, uint16(len(e.name)))
		writeLE16(&buf, uint16(extra.Len()))
		writeLE16(&buf, 0) // comment length
		writeLE16(&buf, 0) // disk start
		writeLE16(&buf, 0) // internal attrs
		writeLE32(&buf, 0) // external attrs
		writeLE32(&buf, localOff)
		buf.WriteString(e.name)
		buf.Write(extra.Bytes())
	}
	cdSize := uint32(buf.Len()) - cdStart

	if opts.forceZip64Eocd {
		eocd64Start := uint32(buf.Len())
		writeLE32(&buf, magicEOCD64)
		writeLE64(&buf, 44) // record size (fixed portion, excluding magic+size field)
		writeLE16(&buf, 20)
		writeLE16(&buf, 20)
		writeLE32(&buf, 0)
		writeLE32(&buf, 0)
		writeLE64(&buf, uint64(len(entries)))
		writeLE64(&buf, uint64(len(entries)))
		writeLE64(&buf, uint64(cdSize))
		writeLE64(&buf, uint64(cdStart))

		writeLE32(&buf, magicEOCD64Locator)
		writeLE32(&buf, 0)
		writeLE64(&buf, uint64(eocd64Start))
		writeLE32(&buf, 1)

		writeLE32(&buf, magicEOCD)
		writeLE16(&buf, 0xFFFF)
		writeLE16(&buf, 0xFFFF)
		writeLE16(&buf, 0xFFFF)
		writeLE16(&buf, 0xFFFF)
		writeLE32(&buf, 0xFFFFFFFF)
		writeLE32(&buf, 0xFFFFFFFF)
		writeLE16(&buf, uint16(len(opts.trailingComment)))
		buf.Write(opts.trailingComment)
		return buf.Bytes()
	}

	writeLE32(&buf, magicEOCD)
	writeLE16(&buf, 0)
	writeLE16(&buf, 0)
	writeLE16(&buf, uint16(len(entries)))
	writeLE16(&buf, uint16(len(entries)))
	writeLE32(&buf, cdSize)
	writeLE32(&buf, cdStart)
	writeLE16(&buf, uint16(len(opts.trailingComment)))
	buf.Write(opts.trailingComment)
	return buf.Bytes()
}

func writeLE16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeLE32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeLE64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
