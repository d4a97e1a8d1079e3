package zip

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/i64/remote-archive/internal/archiveerrs"
)

// EncodingPolicy controls how invalid filename bytes are handled.
type EncodingPolicy int

const (
	// EncodingLenient maps invalid sequences to the Unicode
	// replacement character. This is the default.
	EncodingLenient EncodingPolicy = iota
	// EncodingStrict returns archiveerrs.EncodingError on invalid
	// bytes instead of substituting.
	EncodingStrict
)

// decodeFilename applies the GPB-bit-11 policy: UTF-8 if the flag is
// set, CP437 (the ZIP on-disk default) otherwise.
func decodeFilename(raw []byte, gpbFlags uint16, policy EncodingPolicy) (string, error) {
	if gpbFlags&gpbUTF8Flag != 0 {
		return decodeUTF8(raw, policy)
	}
	return decodeCP437(raw, policy)
}

func decodeUTF8(raw []byte, policy EncodingPolicy) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if policy == EncodingStrict {
		return "", errors.Wrap(archiveerrs.EncodingError, "invalid utf-8 filename bytes")
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
}

func decodeCP437(raw []byte, policy EncodingPolicy) (string, error) {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		if policy == EncodingStrict {
			return "", errors.Wrap(archiveerrs.EncodingError, "invalid cp437 filename bytes")
		}
		return string(utf8.RuneError), nil
	}
	return string(decoded), nil
}
