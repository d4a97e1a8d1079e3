package remote

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPart is an in-memory Part, used to test MultiFile's
// concatenation and seek logic without any network involved.
type memPart struct {
	data []byte
	pos  int64
}

func (m *memPart) Size() int64 { return int64(len(m.data)) }

func (m *memPart) Seek(_ context.Context, offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.data))
	}
	m.pos = base + offset
	return m.pos, nil
}

func (m *memPart) Read(_ context.Context, p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func TestMultiFileSizeIsSumOfParts(t *testing.T) {
	mf, err := NewMultiFile([]Part{
		&memPart{data: []byte("abc")},
		&memPart{data: []byte("de")},
		&memPart{data: []byte("fghij")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), mf.Size())
}

func TestMultiFileReadSpansPartBoundary(t *testing.T) {
	mf, err := NewMultiFile([]Part{
		&memPart{data: []byte("abc")},
		&memPart{data: []byte("defg")},
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = mf.Seek(ctx, 2, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := mf.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "cdef", string(buf))
}

func TestMultiFileReadFromSecondPartOnly(t *testing.T) {
	mf, err := NewMultiFile([]Part{
		&memPart{data: []byte("abc")},
		&memPart{data: []byte("defg")},
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = mf.Seek(ctx, 4, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 3)
	n, err := mf.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "efg", string(buf))
}

func TestMultiFileReadAtEndReturnsEOF(t *testing.T) {
	mf, err := NewMultiFile([]Part{&memPart{data: []byte("xy")}})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = mf.Seek(ctx, 2, io.SeekStart)
	require.NoError(t, err)

	n, err := mf.Read(ctx, make([]byte, 4))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestNewMultiFileRequiresAtLeastOnePart(t *testing.T) {
	_, err := NewMultiFile(nil)
	assert.Error(t, err)
}

func TestMultiFileSeekPastEndIsPermitted(t *testing.T) {
	mf, err := NewMultiFile([]Part{&memPart{data: []byte("abc")}})
	require.NoError(t, err)

	pos, err := mf.Seek(context.Background(), 1000, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), pos)
}
