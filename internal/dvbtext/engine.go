package dvbtext

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Engine opens charset conversion handles. It exists as an interface so the
// cache behavior of the Decoder can be observed with a stub in tests.
type Engine interface {
	Open(charset string) (Handle, error)
}

// Handle converts byte sequences from one source charset to UTF-8.
type Handle interface {
	// Convert transcodes src into dst and returns the number of bytes
	// written. It fails with ErrFieldTooLong when dst cannot hold the
	// output and with ErrInvalidSourceBytes (output still written, bad
	// bytes replaced by U+FFFD) when src is not valid in the source
	// charset.
	Convert(dst, src []byte) (int, error)
	Close() error
}

// TextEngine is the default Engine, backed by golang.org/x/text.
type TextEngine struct{}

// Charset names carried in DVB tables that x/text does not know under these
// spellings. ISO-10646/UCS2 byte order is unspecified in the wild; assume
// big-endian unless the text carries a BOM.
var dvbEncodings = map[string]encoding.Encoding{
	"ISO6937":        ISO6937,
	"ISO-10646/UTF8": encoding.Nop,
	"ISO-10646/UCS2": unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"KSC_5601":       korean.EUCKR,
	"GB_2312-80":     simplifiedchinese.GBK,
	"BIG5":           traditionalchinese.Big5,
}

func (TextEngine) Open(charset string) (Handle, error) {
	if enc, ok := dvbEncodings[charset]; ok {
		return &textHandle{decoder: enc.NewDecoder(), utf8Source: enc == encoding.Nop}, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, &UnsupportedCharsetError{Name: charset, Err: err}
	}
	return &textHandle{decoder: enc.NewDecoder()}, nil
}

type textHandle struct {
	decoder    *encoding.Decoder
	utf8Source bool
}

var replacementBytes = []byte(string(utf8.RuneError))

func (h *textHandle) Convert(dst, src []byte) (int, error) {
	h.decoder.Reset()
	nDst, nSrc, err := h.decoder.Transform(dst, src, true)
	if err == transform.ErrShortDst || (err == nil && nSrc < len(src)) {
		return nDst, ErrFieldTooLong
	}
	if err != nil {
		return nDst, err
	}
	// x/text decoders substitute U+FFFD for unmappable input instead of
	// failing; surface that as a conversion error with the output intact.
	// Skipped for UTF-8 passthrough, where the replacement rune is data.
	if !h.utf8Source && bytes.Contains(dst[:nDst], replacementBytes) {
		return nDst, ErrInvalidSourceBytes
	}
	return nDst, nil
}

func (h *textHandle) Close() error { return nil }
