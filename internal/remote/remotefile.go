package remote

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/i64/remote-archive/internal/archiveerrs"
	"github.com/i64/remote-archive/internal/httprange"
)

// maxReadAttempts bounds the follow-up-range-for-short-body loop in
// Read, so a server that keeps returning empty bodies cannot spin
// this forever.
const maxReadAttempts = 8

// RemoteFile presents one remote HTTP object as a seekable byte
// stream with POSIX lseek/read semantics: seeking past end is
// permitted, and reads at or past end return (0, io.EOF) rather than
// an error. Size is probed once at Open and never changes.
type RemoteFile struct {
	source *HTTPRangeSource
	url    string
	size   int64
	pos    int64
}

// OpenRemoteFile probes url for range support and binds a RemoteFile
// to it. The probe is the only I/O this performs.
func OpenRemoteFile(ctx context.Context, source *HTTPRangeSource, url string) (*RemoteFile, error) {
	size, supportsRange, err := source.Probe(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", url)
	}
	if !supportsRange {
		return nil, errors.Wrapf(archiveerrs.RangeUnsupported, "open %s", url)
	}
	return &RemoteFile{source: source, url: url, size: size}, nil
}

// Size returns the probed total size of the remote object.
func (f *RemoteFile) Size() int64 { return f.size }

// Position returns the current logical read offset.
func (f *RemoteFile) Position() int64 { return f.pos }

// URL returns the remote object's URL, for diagnostics.
func (f *RemoteFile) URL() string { return f.url }

// Seek repositions the stream. POSIX semantics: the resulting
// position may be at or past Size(); only a negative resulting
// position is an error.
func (f *RemoteFile) Seek(_ context.Context, offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = f.size
	default:
		return 0, errors.Errorf("remote file: invalid whence %d", whence)
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, errors.Errorf("remote file: negative position from seek(whence=%d, offset=%d)", whence, offset)
	}
	f.pos = newPos
	return f.pos, nil
}

// Read translates to fetch(url, [pos, min(pos+len(p), size))); the
// body is copied into p and pos advances by the bytes actually
// delivered. If a server returns a short body for the requested
// range (a premature close, not an honest EOF-at-size), Read
// re-issues a follow-up range request for the missing tail before
// returning, per the ordering guarantee in the spec's concurrency
// section.
func (f *RemoteFile) Read(ctx context.Context, p []byte) (int, error) {
	if f.pos >= f.size {
		return 0, io.EOF
	}
	end := f.pos + int64(len(p))
	if end > f.size {
		end = f.size
	}
	want := end - f.pos
	if want <= 0 {
		return 0, io.EOF
	}

	var total int64
	start := f.pos
	for attempt := 0; total < want; attempt++ {
		if attempt >= maxReadAttempts {
			return int(total), errors.Wrapf(archiveerrs.NetworkError, "read %s: server kept returning short bodies for range [%d,%d)", f.url, start, end)
		}
		resp, err := f.source.Fetch(ctx, f.url, httprange.Range{Start: start + total, Length: want - total}, f.size)
		if err != nil {
			f.pos = start + total
			return int(total), err
		}
		n, rerr := io.ReadFull(resp.Body, p[total:want])
		_ = resp.Body.Close()
		total += int64(n)
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			f.pos = start + total
			return int(total), errors.Wrapf(archiveerrs.NetworkError, "read %s: %v", f.url, rerr)
		}
		if rerr == nil {
			break
		}
		// Short body: the server delivered fewer bytes than the
		// requested range promised. Loop to fetch the missing tail.
	}
	f.pos = start + total
	return int(total), nil
}
