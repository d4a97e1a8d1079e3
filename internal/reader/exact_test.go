package reader

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSource is an in-memory Source that counts underlying Read/Seek
// calls, so tests can assert on exactly how much "network" traffic a
// sequence of Reserve/Read calls produced.
type fakeSource struct {
	data      []byte
	pos       int64
	reads     int
	seeks     int
	maxChunk  int // 0 means unlimited
}

func (f *fakeSource) Size() int64 { return int64(len(f.data)) }

func (f *fakeSource) Seek(_ context.Context, offset int64, whence int) (int64, error) {
	f.seeks++
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(len(f.data))
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *fakeSource) Read(_ context.Context, p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	f.reads++
	n := len(p)
	if f.maxChunk > 0 && n > f.maxChunk {
		n = f.maxChunk
	}
	avail := int(int64(len(f.data)) - f.pos)
	if n > avail {
		n = avail
	}
	copy(p, f.data[f.pos:f.pos+int64(n)])
	f.pos += int64(n)
	return n, nil
}

func TestReserveThenReadsMakeNoFurtherUnderlyingReads(t *testing.T) {
	src := &fakeSource{data: []byte("hello, remote archive world")}
	r := New(src)
	ctx := context.Background()

	assert.NoError(t, r.Reserve(ctx, 5))
	readsAfterReserve := src.reads
	assert.True(t, readsAfterReserve > 0)

	buf := make([]byte, 5)
	n, err := r.Read(ctx, buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
	assert.Equal(t, readsAfterReserve, src.reads, "Read after a satisfying Reserve must not touch the source")
}

func TestReserveIsNoOpWhenAlreadyBuffered(t *testing.T) {
	src := &fakeSource{data: []byte("0123456789")}
	r := New(src)
	ctx := context.Background()

	assert.NoError(t, r.Reserve(ctx, 8))
	readsAfterFirst := src.reads
	assert.NoError(t, r.Reserve(ctx, 4))
	assert.Equal(t, readsAfterFirst, src.reads, "second Reserve for fewer bytes than already buffered must not read again")
}

func TestSeekInvalidatesBuffer(t *testing.T) {
	src := &fakeSource{data: []byte("abcdefghij")}
	r := New(src)
	ctx := context.Background()

	assert.NoError(t, r.Reserve(ctx, 5))
	_, err := r.Seek(ctx, 2, io.SeekStart)
	assert.NoError(t, err)

	buf := make([]byte, 3)
	n, err := r.Read(ctx, buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "cde", string(buf))
}

func TestReadPastEndReturnsShortReadNoError(t *testing.T) {
	src := &fakeSource{data: []byte("short")}
	r := New(src)
	ctx := context.Background()

	assert.NoError(t, r.Reserve(ctx, 8))
	buf := make([]byte, 8)
	n, err := r.Read(ctx, buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestReserveAssemblesChunkedUnderlyingReads(t *testing.T) {
	src := &fakeSource{data: []byte("0123456789ABCDEF"), maxChunk: 3}
	r := New(src)
	ctx := context.Background()

	assert.NoError(t, r.Reserve(ctx, 10))
	buf := make([]byte, 10)
	n, err := r.Read(ctx, buf)
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "0123456789", string(buf))
	assert.True(t, src.reads >= 4, "expected multiple chunked underlying reads, got %d", src.reads)
}
