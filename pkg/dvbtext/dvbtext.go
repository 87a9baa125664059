// Package dvbtext is the public face of the DVB SI text decoding pipeline.
package dvbtext

import (
	"github.com/Saner2oo2/tv-grab-dvb-plus/internal/dvbtext"
)

// Types
type Decoder = dvbtext.Decoder
type Option = dvbtext.Option
type Engine = dvbtext.Engine
type Handle = dvbtext.Handle
type Decompressor = dvbtext.Decompressor
type Logger = dvbtext.Logger
type Severity = dvbtext.Severity
type ReservedEncodingError = dvbtext.ReservedEncodingError
type UnsupportedCharsetError = dvbtext.UnsupportedCharsetError

// Constants
const (
	DefaultCharset = dvbtext.DefaultCharset

	SeverityDebug   = dvbtext.SeverityDebug
	SeverityInfo    = dvbtext.SeverityInfo
	SeverityWarning = dvbtext.SeverityWarning
	SeverityError   = dvbtext.SeverityError
)

// Errors
var (
	ErrEmptyField         = dvbtext.ErrEmptyField
	ErrShortField         = dvbtext.ErrShortField
	ErrFieldTooLong       = dvbtext.ErrFieldTooLong
	ErrInvalidSourceBytes = dvbtext.ErrInvalidSourceBytes
	ErrNoDecompressor     = dvbtext.ErrNoDecompressor
)

// Functions
func NewDecoder(opts ...Option) *Decoder {
	return dvbtext.NewDecoder(opts...)
}

func WithEngine(e Engine) Option {
	return dvbtext.WithEngine(e)
}

func WithLogger(l Logger) Option {
	return dvbtext.WithLogger(l)
}

func WithDecompressor(d Decompressor) Option {
	return dvbtext.WithDecompressor(d)
}

// Resolve classifies the charset selector of a raw text field.
func Resolve(raw []byte) (charset string, offset int, err error) {
	return dvbtext.Resolve(raw)
}

// Xmlify escapes a UTF-8 string for inclusion in XML character data.
func Xmlify(s string) string {
	return dvbtext.Xmlify(s)
}
