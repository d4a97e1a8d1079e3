package cmd

import "github.com/i64/remote-archive/internal/archiveerrs"

// exitCodeFor maps a returned error to a process exit code: 1 for a
// usage error (anything cobra itself rejects, or a plain argument
// error from a RunE), 2 for a runtime failure recognized as one of
// the archiveerrs kinds.
func exitCodeFor(err error) int {
	switch {
	case archiveerrs.IsNetworkError(err),
		archiveerrs.IsRangeUnsupported(err),
		archiveerrs.IsProtocolError(err),
		archiveerrs.IsTruncated(err),
		archiveerrs.IsNotAZip(err),
		archiveerrs.IsCorrupt(err),
		archiveerrs.IsEncodingError(err),
		archiveerrs.IsAborted(err):
		return 2
	default:
		return 1
	}
}
