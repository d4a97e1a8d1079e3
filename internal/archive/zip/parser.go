// Package zip decodes the structural metadata of a ZIP (optionally
// ZIP64) archive over an ExactReader: the End-of-Central-Directory
// record, the optional ZIP64 EOCD Locator and EOCD64, and the Central
// Directory entries, minimizing bytes fetched.
package zip

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/i64/remote-archive/internal/archiveerrs"
	"github.com/i64/remote-archive/internal/logging"
	"github.com/i64/remote-archive/internal/reader"
)

// Entry is one Central Directory entry, exposed to callers.
type Entry struct {
	Name              string
	CompressedSize    uint64
	UncompressedSize  uint64
	LocalHeaderOffset uint64
	IsDirectory       bool
}

type state int

const (
	stateOpened state = iota
	stateEocdLocated
	stateZip64Resolved
	stateIterating
	stateExhausted
	stateFailed
)

// Parser decodes the Central Directory of one archive over an
// ExactReader. It is not safe for concurrent use: the parser holds
// exclusive mutable access to its reader, matching the single-
// threaded-cooperative-per-archive-session concurrency model.
type Parser struct {
	er       *reader.ExactReader
	policy   EncodingPolicy
	log      *logrus.Entry
	state    state
	failErr  error

	// cached EOCD resolution, filled by locate().
	cdStartOffset int64
	cdSize        int64
	numRecords    int64
}

// Open binds a Parser to reader. No I/O is performed here.
func Open(er *reader.ExactReader) *Parser {
	return &Parser{
		er:     er,
		policy: EncodingLenient,
		log:    logging.Log.WithField("component", "zip_parser"),
		state:  stateOpened,
	}
}

// SetEncodingPolicy controls how invalid filename bytes are handled.
// Must be called before the first Entries() call.
func (p *Parser) SetEncodingPolicy(policy EncodingPolicy) { p.policy = policy }

func (p *Parser) fail(err error) error {
	p.state = stateFailed
	p.failErr = err
	return err
}

// Entries returns a restartable, lazy iterator over the Central
// Directory in archive order. Calling Entries again re-seeks to
// cd_start_offset and yields the same sequence; the only I/O shared
// across calls is the EOCD/ZIP64 resolution, which is resolved once
// and cached since it cannot change within a session.
func (p *Parser) Entries(ctx context.Context) (*EntryIterator, error) {
	if p.state == stateFailed {
		return nil, p.failErr
	}
	if p.state == stateOpened {
		if err := p.locate(ctx); err != nil {
			return nil, p.fail(err)
		}
	}

	if _, err := p.er.Seek(ctx, p.cdStartOffset, io.SeekStart); err != nil {
		return nil, p.fail(errors.Wrap(err, "zip: seek to central directory"))
	}
	if p.cdStartOffset+p.cdSize > p.er.Size() {
		return nil, p.fail(errors.Wrapf(archiveerrs.Corrupt, "central directory size %d exceeds remaining bytes at offset %d (size %d)", p.cdSize, p.cdStartOffset, p.er.Size()))
	}
	// Reserve the whole Central Directory block in one shot: every
	// subsequent per-entry read (including the extra/comment skips in
	// Next) is then served from this buffer with zero further network
	// calls.
	if err := p.er.Reserve(ctx, int(p.cdSize)); err != nil {
		return nil, p.fail(errors.Wrap(err, "zip: reserve central directory"))
	}

	p.state = stateIterating
	return &EntryIterator{p: p, remaining: p.numRecords}, nil
}

// locate performs spec §4.5 steps 1-4: find the EOCD via a bounded
// backward scan, detect whether ZIP64 is needed, and if so resolve
// the EOCD64 Locator and EOCD64. Results are cached on the Parser.
func (p *Parser) locate(ctx context.Context) error {
	size := p.er.Size()
	if size < eocdFixedSize {
		return errors.Wrapf(archiveerrs.Truncated, "archive size %d smaller than minimum EOCD size %d", size, eocdFixedSize)
	}

	w := int64(maxEOCDSearchWindow)
	if size < w {
		w = size
	}
	buf, err := window(ctx, p.er, size-w, int(w))
	if err != nil {
		return err
	}

	eocdAbsOffset, eocd, err := findEOCD(buf, size-w)
	if err != nil {
		return err
	}
	p.log.Debugf("eocd located at offset %d (window %d bytes)", eocdAbsOffset, w)
	p.state = stateEocdLocated

	if !eocd.needsZip64() {
		p.cdStartOffset = int64(eocd.cdStartOffset)
		p.cdSize = int64(eocd.cdSize)
		p.numRecords = int64(eocd.numRecords)
		return nil
	}

	locatorOffset := eocdAbsOffset - eocd64LocatorSize
	if locatorOffset < 0 {
		return errors.Wrap(archiveerrs.Corrupt, "zip64 eocd locator would start before the archive")
	}
	locBuf, err := window(ctx, p.er, locatorOffset, eocd64LocatorSize)
	if err != nil {
		return err
	}
	if le32(locBuf[0:4]) != magicEOCD64Locator {
		return errors.Wrapf(archiveerrs.Corrupt, "bad zip64 eocd locator magic at offset %d", locatorOffset)
	}
	locator := decodeEOCD64Locator(locBuf)

	eocd64Size := int64(eocd64MaxSize)
	if remaining := size - int64(locator.zip64EOCDOffset); remaining < eocd64Size {
		eocd64Size = remaining
	}
	if eocd64Size < 4 {
		return errors.Wrap(archiveerrs.Corrupt, "zip64 eocd would not fit before the locator")
	}
	eocd64Buf, err := window(ctx, p.er, int64(locator.zip64EOCDOffset), int(eocd64Size))
	if err != nil {
		return err
	}
	if le32(eocd64Buf[0:4]) != magicEOCD64 {
		return errors.Wrapf(archiveerrs.Corrupt, "bad zip64 eocd magic at offset %d", locator.zip64EOCDOffset)
	}
	eocd64 := decodeEOCD64(eocd64Buf)

	p.cdStartOffset = int64(eocd64.cdStartOffset)
	p.cdSize = int64(eocd64.cdSize)
	p.numRecords = int64(eocd64.numRecords)
	p.state = stateZip64Resolved
	return nil
}

// findEOCD scans buf backward for the EOCD magic, treating the last
// (highest-offset) occurrence whose declared comment_length is
// consistent with the remaining bytes in buf as the true EOCD. This
// guards against an outer archive's search window containing an
// inner, fully self-describing ZIP (which would otherwise present an
// earlier, spurious EOCD-shaped byte sequence).
func findEOCD(buf []byte, windowAbsStart int64) (int64, eocdRecord, error) {
	for i := len(buf) - eocdFixedSize; i >= 0; i-- {
		if le32(buf[i:i+4]) != magicEOCD {
			continue
		}
		candidate := decodeEOCD(buf[i : i+eocdFixedSize])
		remaining := len(buf) - (i + eocdFixedSize)
		if int(candidate.commentLength) != remaining {
			continue
		}
		return windowAbsStart + int64(i), candidate, nil
	}
	return 0, eocdRecord{}, archiveerrs.NotAZip
}

// EntryIterator yields Central Directory entries one at a time,
// decoding filename bytes (and, when needed, the ZIP64 extra field)
// lazily per entry from the block Entries reserved.
type EntryIterator struct {
	p         *Parser
	remaining int64
}

// Next decodes the next entry, or returns ok=false once the
// declared record count is exhausted.
func (it *EntryIterator) Next(ctx context.Context) (entry Entry, ok bool, err error) {
	if it.remaining <= 0 {
		it.p.state = stateExhausted
		return Entry{}, false, nil
	}

	b, err := readExact(ctx, it.p.er, centralDirFixedSize)
	if err != nil {
		return Entry{}, false, it.p.fail(errors.Wrap(err, "zip: read central directory entry"))
	}
	if le32(b[0:4]) != magicCentralDirEntry {
		return Entry{}, false, it.p.fail(errors.Wrap(archiveerrs.Corrupt, "bad central directory entry magic"))
	}
	cd := decodeCentralDirEntry(b)

	nameBytes, err := readExact(ctx, it.p.er, int(cd.fileNameLength))
	if err != nil {
		return Entry{}, false, it.p.fail(errors.Wrap(err, "zip: read filename"))
	}
	name, err := decodeFilename(nameBytes, cd.gpbFlags, it.p.policy)
	if err != nil {
		return Entry{}, false, it.p.fail(err)
	}

	uncompressedSize := uint64(cd.uncompressedSize)
	compressedSize := uint64(cd.compressedSize)
	localHeaderOffset := uint64(cd.localHeaderOff)

	if cd.needsZip64() {
		extra, err := readExact(ctx, it.p.er, int(cd.extraFieldLength))
		if err != nil {
			return Entry{}, false, it.p.fail(errors.Wrap(err, "zip: read extra field"))
		}
		if err := applyZip64Overrides(extra, cd, &uncompressedSize, &compressedSize, &localHeaderOffset); err != nil {
			return Entry{}, false, it.p.fail(err)
		}
		// Skip by consuming from the reserved block: a Seek would
		// invalidate the ExactReader buffer.
		if _, err := readExact(ctx, it.p.er, int(cd.commentLength)); err != nil {
			return Entry{}, false, it.p.fail(errors.Wrap(err, "zip: skip comment"))
		}
	} else {
		skip := int(cd.extraFieldLength) + int(cd.commentLength)
		if _, err := readExact(ctx, it.p.er, skip); err != nil {
			return Entry{}, false, it.p.fail(errors.Wrap(err, "zip: skip extra+comment"))
		}
	}

	it.remaining--
	return Entry{
		Name:              name,
		CompressedSize:    compressedSize,
		UncompressedSize:  uncompressedSize,
		LocalHeaderOffset: localHeaderOffset,
		IsDirectory:       len(name) > 0 && name[len(name)-1] == '/',
	}, true, nil
}

// applyZip64Overrides parses the ZIP64 extended information extra
// field (tag 0x0001) and recovers 8-byte overrides in the order
// uncompressed_size, compressed_size, local_header_offset,
// disk_start, for whichever base fields were at their sentinel max.
func applyZip64Overrides(extra []byte, cd centralDirEntry, uncompressedSize, compressedSize, localHeaderOffset *uint64) error {
	for i := 0; i+4 <= len(extra); {
		tag := le16(extra[i : i+2])
		size := le16(extra[i+2 : i+4])
		i += 4
		if i+int(size) > len(extra) {
			return errors.Wrap(archiveerrs.Corrupt, "zip64 extra field declares more data than is present")
		}
		data := extra[i : i+int(size)]
		i += int(size)
		if tag != zip64ExtraFieldTag {
			continue
		}

		pos := 0
		next8 := func(label string) (uint64, error) {
			if pos+8 > len(data) {
				return 0, errors.Wrapf(archiveerrs.Corrupt, "zip64 extra field missing %s override", label)
			}
			v := le64(data[pos : pos+8])
			pos += 8
			return v, nil
		}

		if cd.uncompressedSize == uint32(0xFFFFFFFF) {
			v, err := next8("uncompressed_size")
			if err != nil {
				return err
			}
			*uncompressedSize = v
		}
		if cd.compressedSize == uint32(0xFFFFFFFF) {
			v, err := next8("compressed_size")
			if err != nil {
				return err
			}
			*compressedSize = v
		}
		if cd.localHeaderOff == uint32(0xFFFFFFFF) {
			v, err := next8("local_header_offset")
			if err != nil {
				return err
			}
			*localHeaderOffset = v
		}
		// disk_start is decoded for completeness per the spec's field
		// order but not exposed on Entry (no multi-disk support).
		if cd.diskStart == sentinel16 {
			if _, err := next8("disk_start"); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Wrap(archiveerrs.Corrupt, "zip64 override needed but no tag 0x0001 extra field present")
}
