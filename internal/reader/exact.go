// Package reader implements ExactReader, a seekable buffered adapter
// over any underlying seekable byte source with a reservation
// protocol: callers announce how many contiguous bytes they are about
// to consume, the reader fetches them in one underlying call, and
// subsequent small reads are satisfied from the buffer.
package reader

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/i64/remote-archive/internal/archiveerrs"
)

// Source is anything ExactReader can wrap: remote.RemoteFile and
// remote.MultiFile both satisfy this structurally.
type Source interface {
	Size() int64
	Seek(ctx context.Context, offset int64, whence int) (int64, error)
	Read(ctx context.Context, p []byte) (int, error)
}

// ExactReader buffers one reservation at a time. buf[cursor:] holds
// bytes starting at the current logical position; bufStart is the
// absolute offset of buf[0]. Seeking invalidates the buffer.
type ExactReader struct {
	src Source

	buf      []byte
	bufStart int64
	cursor   int

	logicalPos int64

	srcPos    int64
	srcPosSet bool
}

// New wraps src. No I/O is performed here.
func New(src Source) *ExactReader {
	return &ExactReader{src: src}
}

// Size returns the underlying stream's size.
func (r *ExactReader) Size() int64 { return r.src.Size() }

// Position returns the next logical read offset. It is conserved
// across Reserve: Reserve never moves it.
func (r *ExactReader) Position() int64 { return r.logicalPos }

func (r *ExactReader) bufferedRemaining() int { return len(r.buf) - r.cursor }

// Seek repositions the logical cursor and invalidates the buffer; the
// next Read or Reserve triggers an underlying fetch.
func (r *ExactReader) Seek(_ context.Context, offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = r.logicalPos
	case io.SeekEnd:
		base = r.src.Size()
	default:
		return 0, errors.Errorf("exact reader: invalid whence %d", whence)
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, errors.Errorf("exact reader: negative position from seek(whence=%d, offset=%d)", whence, offset)
	}
	r.logicalPos = newPos
	r.invalidate()
	return newPos, nil
}

func (r *ExactReader) invalidate() {
	r.buf = nil
	r.bufStart = r.logicalPos
	r.cursor = 0
}

func (r *ExactReader) seekSourceTo(ctx context.Context, pos int64) error {
	if r.srcPosSet && r.srcPos == pos {
		return nil
	}
	if _, err := r.src.Seek(ctx, pos, io.SeekStart); err != nil {
		return err
	}
	r.srcPos = pos
	r.srcPosSet = true
	return nil
}

// Reserve requests that the next n bytes from the current logical
// position be available without further underlying I/O. If the
// buffer already holds at least n bytes from the cursor, this is a
// no-op. Otherwise it reads n bytes from the source, repeating the
// underlying read while the source delivers fewer (a short result is
// permitted only at EOF), and resets the buffer to hold them.
func (r *ExactReader) Reserve(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if r.bufferedRemaining() >= n {
		return nil
	}

	if err := r.seekSourceTo(ctx, r.logicalPos); err != nil {
		return errors.Wrap(err, "exact reader: reserve")
	}

	buf := make([]byte, n)
	got, err := readFull(ctx, r.src, buf)
	if err != nil {
		return errors.Wrap(err, "exact reader: reserve")
	}
	r.srcPos += int64(got)

	r.buf = buf[:got]
	r.bufStart = r.logicalPos
	r.cursor = 0
	return nil
}

// Read copies min(len(p), buffered_remaining) bytes from the buffer;
// if the buffer is exhausted it issues a new underlying read sized to
// len(p), bypassing the buffer.
func (r *ExactReader) Read(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if rem := r.bufferedRemaining(); rem > 0 {
		n := copy(p, r.buf[r.cursor:])
		r.cursor += n
		r.logicalPos += int64(n)
		return n, nil
	}

	if err := r.seekSourceTo(ctx, r.logicalPos); err != nil {
		return 0, errors.Wrap(err, "exact reader: read")
	}
	n, err := r.src.Read(ctx, p)
	r.logicalPos += int64(n)
	r.srcPos += int64(n)
	r.invalidate()
	return n, err
}

// readFull loops until buf is full or the source reaches EOF, in
// which case a short read is returned without error (EOF is
// discovered, not reported, by the caller comparing bytes returned to
// bytes requested).
func readFull(ctx context.Context, src Source, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := src.Read(ctx, buf[total:])
		total += n
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			return total, errors.Wrap(archiveerrs.NetworkError, "no progress reading source")
		}
	}
	return total, nil
}
