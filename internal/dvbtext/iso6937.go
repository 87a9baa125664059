package dvbtext

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ISO6937 is the default DVB character table (ISO/IEC 6937, ITU T.51).
// x/text ships no implementation, so the decode direction is built here.
// Bytes 0xC1-0xCF are non-spacing diacritical marks that combine with the
// following byte; the decoder emits base letter plus combining mark and the
// output is NFC-normalized, so "Ã" comes out precomposed where Unicode has a
// precomposed form. Encoding back to ISO 6937 is not supported.
var ISO6937 encoding.Encoding = iso6937{}

type iso6937 struct{}

func (iso6937) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: transform.Chain(iso6937Decoder{}, norm.NFC)}
}

func (iso6937) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: iso6937Encoder{}}
}

type iso6937Decoder struct{}

func (iso6937Decoder) Reset() {}

func (iso6937Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		size := 1
		var r, mark rune
		switch {
		case b < 0x80:
			r = rune(b)
		case b >= 0xC1 && b <= 0xCF:
			if nSrc+1 >= len(src) {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				// Dangling diacritic at end of field.
				r = utf8.RuneError
				break
			}
			mark = iso6937Marks[b-0xC1]
			r = decodeISO6937Single(src[nSrc+1])
			size = 2
			if mark == 0 {
				// Unused diacritic position; the pair is invalid.
				r = utf8.RuneError
			}
		default:
			r = decodeISO6937Single(b)
		}
		need := utf8.RuneLen(r)
		if mark != 0 {
			need += utf8.RuneLen(mark)
		}
		if nDst+need > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		if mark != 0 {
			nDst += utf8.EncodeRune(dst[nDst:], mark)
		}
		nSrc += size
	}
	return nDst, nSrc, nil
}

func decodeISO6937Single(b byte) rune {
	switch {
	case b < 0x80:
		return rune(b)
	case b < 0xA0:
		// DVB reuses 0x80-0x9F for in-text controls (emphasis on/off,
		// CR/LF). Passed through as the corresponding C1 controls.
		return rune(b)
	}
	if r := iso6937Table[b-0xA0]; r != 0 {
		return r
	}
	return utf8.RuneError
}

// Combining marks for 0xC1-0xCF. Zero entries are unused positions.
var iso6937Marks = [15]rune{
	0xC1 - 0xC1: 0x0300, // grave
	0xC2 - 0xC1: 0x0301, // acute
	0xC3 - 0xC1: 0x0302, // circumflex
	0xC4 - 0xC1: 0x0303, // tilde
	0xC5 - 0xC1: 0x0304, // macron
	0xC6 - 0xC1: 0x0306, // breve
	0xC7 - 0xC1: 0x0307, // dot above
	0xC8 - 0xC1: 0x0308, // diaeresis
	0xCA - 0xC1: 0x030A, // ring above
	0xCB - 0xC1: 0x0327, // cedilla
	0xCD - 0xC1: 0x030B, // double acute
	0xCE - 0xC1: 0x0328, // ogonek
	0xCF - 0xC1: 0x030C, // caron
}

// iso6937Table maps 0xA0-0xFF to Unicode. The diacritic range 0xC1-0xCF is
// left zero here and handled above. Zero entries elsewhere are unassigned.
var iso6937Table = [96]rune{
	0x00A0, 0x00A1, 0x00A2, 0x00A3, 0x0024, 0x00A5, 0, 0x00A7, // A0-A7
	0x00A4, 0x2018, 0x201C, 0x00AB, 0x2190, 0x2191, 0x2192, 0x2193, // A8-AF
	0x00B0, 0x00B1, 0x00B2, 0x00B3, 0x00D7, 0x00B5, 0x00B6, 0x00B7, // B0-B7
	0x00F7, 0x2019, 0x201D, 0x00BB, 0x00BC, 0x00BD, 0x00BE, 0x00BF, // B8-BF
	0, 0, 0, 0, 0, 0, 0, 0, // C0-C7 (diacritics)
	0, 0, 0, 0, 0, 0, 0, 0, // C8-CF (diacritics)
	0x2015, 0x00B9, 0x00AE, 0x00A9, 0x2122, 0x266A, 0x00AC, 0x00A6, // D0-D7
	0, 0, 0, 0, 0x215B, 0x215C, 0x215D, 0x215E, // D8-DF
	0x03A9, 0x00C6, 0x0110, 0x00AA, 0x0126, 0, 0x0132, 0x013F, // E0-E7
	0x0141, 0x00D8, 0x0152, 0x00BA, 0x00DE, 0x0166, 0x014A, 0x0149, // E8-EF
	0x0138, 0x00E6, 0x0111, 0x00F0, 0x0127, 0x0131, 0x0133, 0x0140, // F0-F7
	0x0142, 0x00F8, 0x0153, 0x00DF, 0x00FE, 0x0167, 0x014B, 0x00AD, // F8-FF
}

var errISO6937Encode = errors.New("dvbtext: encoding to ISO 6937 is not supported")

type iso6937Encoder struct{}

func (iso6937Encoder) Reset() {}

func (iso6937Encoder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	return 0, 0, errISO6937Encode
}
