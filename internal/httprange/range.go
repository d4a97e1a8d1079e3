// Package httprange implements the half-open-to-inclusive translation
// between the RFC 7233 byte-range wire form and the closed-open
// [Start, Start+Length) ranges the rest of this module works with.
package httprange

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/i64/remote-archive/internal/archiveerrs"
)

// Range is closed-open in design: Start is inclusive, Start+Length is
// exclusive. Length < 0 means "to end of resource".
type Range struct {
	Start  int64
	Length int64
}

// End returns the exclusive end of the range given the resource size,
// resolving a negative Length to "through size".
func (r Range) End(size int64) int64 {
	if r.Length < 0 {
		return size
	}
	end := r.Start + r.Length
	if end > size {
		return size
	}
	return end
}

// Header renders the inclusive wire form "bytes=A-B" for a half-open
// [Start, Start+Length) range, with Length resolved against size.
//
// The on-the-wire form is inclusive per RFC 7233: a half-open range of
// [a, b) is sent as "bytes=a-(b-1)". A naive implementation that
// forwards the exclusive bound unchanged asks the server for one byte
// too many; this is the off-by-one the original prototype shipped
// (see DESIGN.md) and it is deliberately not reproduced here.
func (r Range) Header(size int64) string {
	end := r.End(size)
	if end <= r.Start {
		return fmt.Sprintf("bytes=%d-%d", r.Start, r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, end-1)
}

// ApplyToHeader sets the Range header on a (possibly nil) header set
// derived from base, returning a copy with Range populated.
func ApplyToHeader(r Range, size int64, base http.Header) http.Header {
	h := base.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Range", r.Header(size))
	return h
}

// ParseContentRange parses a "bytes A-B/TOTAL" Content-Range value,
// returning the inclusive start/end and the total resource size.
func ParseContentRange(value string) (start, end, total int64, err error) {
	value = strings.TrimSpace(value)
	const prefix = "bytes "
	if !strings.HasPrefix(value, prefix) {
		return 0, 0, 0, errors.Wrapf(archiveerrs.ProtocolError, "content-range %q missing %q prefix", value, prefix)
	}
	rest := strings.TrimPrefix(value, prefix)
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return 0, 0, 0, errors.Wrapf(archiveerrs.ProtocolError, "content-range %q missing total", value)
	}
	rangePart, totalPart := rest[:slash], rest[slash+1:]

	dash := strings.IndexByte(rangePart, '-')
	if dash < 0 {
		return 0, 0, 0, errors.Wrapf(archiveerrs.ProtocolError, "content-range %q missing dash", value)
	}
	start, err = strconv.ParseInt(rangePart[:dash], 10, 64)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(archiveerrs.ProtocolError, "content-range %q has invalid start", value)
	}
	end, err = strconv.ParseInt(rangePart[dash+1:], 10, 64)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(archiveerrs.ProtocolError, "content-range %q has invalid end", value)
	}
	total, err = strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(archiveerrs.ProtocolError, "content-range %q has invalid total", value)
	}
	return start, end, total, nil
}
