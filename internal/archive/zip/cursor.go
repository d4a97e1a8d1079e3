package zip

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/i64/remote-archive/internal/archiveerrs"
	"github.com/i64/remote-archive/internal/reader"
)

// window fetches an absolute, fixed-size byte range into memory in
// one Reserve+Read pair, then hands back plain bytes for in-memory
// decoding. Used for EOCD/EOCD64/locator, which need random-access
// backward scanning rather than the forward seek-skip the Central
// Directory iteration uses.
func window(ctx context.Context, er *reader.ExactReader, absOffset int64, n int) ([]byte, error) {
	if _, err := er.Seek(ctx, absOffset, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "zip: seek window")
	}
	if err := er.Reserve(ctx, n); err != nil {
		return nil, errors.Wrap(err, "zip: reserve window")
	}
	return readExact(ctx, er, n)
}

// readExact reserves nothing itself; it assumes the caller already
// reserved n bytes (or is fine with a short read at EOF, in which
// case archiveerrs.Truncated is returned with whatever was read
// discarded).
func readExact(ctx context.Context, er *reader.ExactReader, n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := er.Read(ctx, buf[got:])
		got += m
		if err != nil {
			return nil, errors.Wrap(err, "zip: read")
		}
		if m == 0 {
			break
		}
	}
	if got < n {
		return nil, errors.Wrapf(archiveerrs.Truncated, "expected %d bytes, got %d", n, got)
	}
	return buf, nil
}

func le16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func le64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
