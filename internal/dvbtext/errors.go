package dvbtext

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyField is returned for a zero-length text field.
	ErrEmptyField = errors.New("dvbtext: empty text field")

	// ErrShortField is returned when a selector byte promises more header
	// bytes than the field contains.
	ErrShortField = errors.New("dvbtext: text field too short for charset selector")

	// ErrFieldTooLong is returned when a raw field exceeds the maximum
	// length, or when converted or escaped output would overflow the
	// scratch buffers.
	ErrFieldTooLong = errors.New("dvbtext: text field too long")

	// ErrInvalidSourceBytes reports input bytes with no mapping in the
	// resolved charset. Conversion output is still returned alongside it,
	// with each bad byte replaced by U+FFFD.
	ErrInvalidSourceBytes = errors.New("dvbtext: invalid bytes for source charset")

	// ErrNoDecompressor is returned for a compressed text field when no
	// decompressor has been configured on the Decoder.
	ErrNoDecompressor = errors.New("dvbtext: compressed text field but no decompressor configured")
)

// ReservedEncodingError reports a selector byte that maps to a reserved
// slot of the charset table.
type ReservedEncodingError struct {
	Code byte
}

func (e *ReservedEncodingError) Error() string {
	return fmt.Sprintf("dvbtext: reserved encoding 0x%02x", e.Code)
}

// UnsupportedCharsetError reports a resolved charset name the conversion
// engine cannot open a handle for.
type UnsupportedCharsetError struct {
	Name string
	Err  error
}

func (e *UnsupportedCharsetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dvbtext: unsupported charset %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("dvbtext: unsupported charset %q", e.Name)
}

func (e *UnsupportedCharsetError) Unwrap() error { return e.Err }
