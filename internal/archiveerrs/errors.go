// Package archiveerrs defines the error kinds surfaced by the core
// components (HttpRangeSource, RemoteFile, MultiFile, ExactReader,
// ZipParser, ArchiveDriver). Lower layers wrap a sentinel with
// call-site context via errors.Wrap/Wrapf; callers recover the kind
// with errors.Is(errors.Cause(err), archiveerrs.X).
package archiveerrs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// NetworkError is a transport failure: DNS, TLS, connection reset,
	// timeout. Not retried internally.
	NetworkError = errors.New("network error")

	// RangeUnsupported is returned when the probe request did not get
	// a 206 response with a usable Content-Range. Fatal for that URL.
	RangeUnsupported = errors.New("server does not support range requests")

	// ProtocolError marks a malformed Content-Range or other HTTP
	// contract violation distinct from a plain transport failure.
	ProtocolError = errors.New("malformed http response")

	// Truncated means the archive is smaller than the minimum EOCD (or
	// EOCD64 locator) size.
	Truncated = errors.New("archive truncated")

	// NotAZip means the EOCD magic was not found within the trailing
	// search window.
	NotAZip = errors.New("not a zip archive")

	// Corrupt means a record magic mismatched, a declared length
	// exceeds file bounds, or a ZIP64 extra field was inconsistent.
	Corrupt = errors.New("corrupt archive")

	// EncodingError means filename bytes were invalid under the
	// selected encoding and the strict policy was requested.
	EncodingError = errors.New("invalid filename encoding")

	// Aborted means the caller cancelled an in-flight operation.
	Aborted = errors.New("aborted")
)

// NewErr wraps a sentinel error with an additional formatted message,
// keeping the sentinel recoverable via errors.Is(errors.Cause(err), X).
func NewErr(err error, format string, a ...any) error {
	return errors.Wrap(err, fmt.Sprintf(format, a...))
}

func IsNetworkError(err error) bool {
	return errors.Is(errors.Cause(err), NetworkError)
}

func IsRangeUnsupported(err error) bool {
	return errors.Is(errors.Cause(err), RangeUnsupported)
}

func IsProtocolError(err error) bool {
	return errors.Is(errors.Cause(err), ProtocolError)
}

func IsTruncated(err error) bool {
	return errors.Is(errors.Cause(err), Truncated)
}

func IsNotAZip(err error) bool {
	return errors.Is(errors.Cause(err), NotAZip)
}

func IsCorrupt(err error) bool {
	return errors.Is(errors.Cause(err), Corrupt)
}

func IsEncodingError(err error) bool {
	return errors.Is(errors.Cause(err), EncodingError)
}

func IsAborted(err error) bool {
	return errors.Is(errors.Cause(err), Aborted)
}
