package dvbtext

import (
	"errors"
	"unicode/utf8"
)

// Decompressor decodes a proprietary compressed text payload into UTF-8.
// Freesat broadcasts carry Huffman-compressed event text; the code tables
// live outside this package and are injected by the caller. The returned
// bytes are trusted to be UTF-8 and skip charset conversion.
type Decompressor func(compressed []byte) []byte

// Decoder converts raw DVB SI text fields into XML-safe UTF-8. It caches the
// most recently used charset so consecutive fields in the same table do not
// reopen the conversion engine.
//
// A Decoder is not safe for concurrent use; give each goroutine its own.
type Decoder struct {
	engine Engine
	log    Logger
	decomp Decompressor

	charset string // charset the open handle was built for
	handle  Handle

	convBuf   []byte
	escapeBuf []byte
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithEngine replaces the default x/text conversion engine.
func WithEngine(e Engine) Option {
	return func(d *Decoder) { d.engine = e }
}

// WithLogger sets the diagnostic sink. A nil sink keeps the default.
func WithLogger(l Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// WithDecompressor installs the Freesat Huffman decoder. Without one,
// compressed fields degrade to empty.
func WithDecompressor(dc Decompressor) Option {
	return func(d *Decoder) { d.decomp = dc }
}

// NewDecoder returns a Decoder with scratch buffers sized for the worst
// case: UTF-8 output up to utf8.UTFMax bytes per input byte, entity escaping
// up to maxEntityLen bytes per UTF-8 byte.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		engine:    TextEngine{},
		log:       NopLogger,
		convBuf:   make([]byte, maxFieldLen*utf8.UTFMax),
		escapeBuf: make([]byte, 0, maxFieldLen*utf8.UTFMax*maxEntityLen),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close releases the cached conversion handle. The Decoder stays usable; the
// next conversion reopens on demand.
func (d *Decoder) Close() error {
	if d.handle == nil {
		return nil
	}
	err := d.handle.Close()
	d.handle = nil
	d.charset = ""
	return err
}

// ConvertText runs the full pipeline on one raw text field: classify the
// charset selector, convert the content to UTF-8 (or hand it to the
// decompressor), escape for XML. The result is an owned string.
//
// Recoverable failures return an empty string and the error; callers
// processing a batch of fields should treat such a field as absent and move
// on. ErrInvalidSourceBytes is the exception: the partially usable output is
// returned alongside it.
func (d *Decoder) ConvertText(raw []byte) (string, error) {
	if len(raw) > maxFieldLen {
		return "", ErrFieldTooLong
	}
	charset, offset, err := Resolve(raw)
	if err != nil {
		var reserved *ReservedEncodingError
		if errors.As(err, &reserved) {
			d.log.Log(SeverityWarning, "reserved encoding: %02x", reserved.Code)
		}
		return "", err
	}

	if raw[0] == compressedSelector {
		// Freesat path. The original decoder classified these fields as
		// default-charset text and handed the whole field, selector byte
		// included, to the decompressor. Bug-compatible: the selector stays
		// in the compressed payload.
		if d.decomp == nil {
			d.log.Log(SeverityWarning, "compressed text field without a decompressor")
			return "", ErrNoDecompressor
		}
		return d.escape(d.decomp(raw))
	}

	converted, convErr := d.convert(charset, raw[offset:])
	if convErr != nil && !errors.Is(convErr, ErrInvalidSourceBytes) {
		return "", convErr
	}
	out, err := d.escape(converted)
	if err != nil {
		return "", err
	}
	return out, convErr
}

func (d *Decoder) convert(charset string, content []byte) ([]byte, error) {
	if d.handle == nil || charset != d.charset {
		if d.handle != nil {
			_ = d.handle.Close()
			d.handle = nil
			d.charset = ""
		}
		h, err := d.engine.Open(charset)
		if err != nil {
			var unsupported *UnsupportedCharsetError
			if !errors.As(err, &unsupported) {
				err = &UnsupportedCharsetError{Name: charset, Err: err}
			}
			d.log.Log(SeverityError, "cannot open converter: %v", err)
			return nil, err
		}
		d.handle = h
		d.charset = charset
	}

	n, err := d.handle.Convert(d.convBuf, content)
	out := d.convBuf[:n]
	if errors.Is(err, ErrInvalidSourceBytes) {
		d.log.Log(SeverityWarning, "invalid %s bytes in text field", d.charset)
		return out, err
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Decoder) escape(utf8Bytes []byte) (string, error) {
	out, err := appendXMLEscaped(d.escapeBuf[:0], utf8Bytes, d.log)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
