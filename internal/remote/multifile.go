package remote

import (
	"context"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Part is the subset of RemoteFile's contract MultiFile composes
// over. RemoteFile satisfies it directly; tests may substitute a
// fake.
type Part interface {
	Size() int64
	Seek(ctx context.Context, offset int64, whence int) (int64, error)
	Read(ctx context.Context, p []byte) (int, error)
}

// MultiFile concatenates an ordered list of parts into one logical
// stream whose size is the sum of the parts' sizes. A logical
// position p maps to a unique (part index, local offset) pair via
// prefix sums over part sizes; seeks are O(log n) via binary search.
type MultiFile struct {
	parts  []Part
	prefix []int64 // prefix[i] = sum of sizes of parts[0:i]; len(prefix) == len(parts)+1
	pos    int64
}

// NewMultiFile requires at least one part.
func NewMultiFile(parts []Part) (*MultiFile, error) {
	if len(parts) == 0 {
		return nil, errors.New("multi file: at least one part is required")
	}
	prefix := make([]int64, len(parts)+1)
	for i, p := range parts {
		prefix[i+1] = prefix[i] + p.Size()
	}
	return &MultiFile{parts: parts, prefix: prefix}, nil
}

// Size returns the sum of all parts' sizes.
func (m *MultiFile) Size() int64 { return m.prefix[len(m.prefix)-1] }

// Position returns the current logical read offset.
func (m *MultiFile) Position() int64 { return m.pos }

// Seek repositions the logical stream. POSIX semantics, matching
// RemoteFile: seeking at or past Size() is permitted.
func (m *MultiFile) Seek(_ context.Context, offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = m.Size()
	default:
		return 0, errors.Errorf("multi file: invalid whence %d", whence)
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, errors.Errorf("multi file: negative position from seek(whence=%d, offset=%d)", whence, offset)
	}
	m.pos = newPos
	return m.pos, nil
}

// locate returns the unique (part index, local offset) for a logical
// position strictly inside the stream (pos < Size()).
func (m *MultiFile) locate(pos int64) (idx int, local int64) {
	// prefix is strictly increasing; find the rightmost i with
	// prefix[i] <= pos.
	i := sort.Search(len(m.prefix), func(i int) bool { return m.prefix[i] > pos }) - 1
	if i < 0 {
		i = 0
	}
	return i, pos - m.prefix[i]
}

// Read may span parts: it issues successive part-local reads and
// concatenates them, returning the total count read.
func (m *MultiFile) Read(ctx context.Context, p []byte) (int, error) {
	if m.pos >= m.Size() {
		return 0, io.EOF
	}
	var total int
	for total < len(p) && m.pos < m.Size() {
		idx, local := m.locate(m.pos)
		part := m.parts[idx]

		if _, err := part.Seek(ctx, local, io.SeekStart); err != nil {
			return total, errors.Wrapf(err, "multi file: seek part %d", idx)
		}

		partRemaining := part.Size() - local
		chunk := int64(len(p) - total)
		if chunk > partRemaining {
			chunk = partRemaining
		}

		n, err := part.Read(ctx, p[total:int64(total)+chunk])
		total += n
		m.pos += int64(n)
		if err != nil && err != io.EOF {
			return total, errors.Wrapf(err, "multi file: read part %d", idx)
		}
		if n == 0 {
			// Part reported EOF before delivering partRemaining bytes;
			// this would only happen if a part's probed size was
			// stale. Surface it rather than spinning.
			break
		}
	}
	return total, nil
}
