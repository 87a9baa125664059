package dvbtext

import "fmt"

// Charset selection per ETSI EN 300 468 annex A.2: the first byte of a text
// field selects the character table. Bytes 0x20 and above are text content
// and imply the default table.

// DefaultCharset is assumed when the field carries no selector byte.
// The spec says ISO-6937, but many stations get it wrong and use ISO-8859-1.
const DefaultCharset = "ISO6937"

// compressedSelector marks Freesat Huffman-compressed text.
const compressedSelector = 0x1F

// maxFieldLen bounds a single raw text field.
const maxFieldLen = 1024

type encodingKind int

const (
	encodingReserved encodingKind = iota
	encodingFixed
	encodingVariable
	encodingCompressed
)

type encodingSlot struct {
	kind encodingKind
	name string // charset name, or name template for encodingVariable
}

// selectorTable covers selector bytes 0x00-0x1F. The 0x1F slot is present
// for completeness but unreachable through Resolve: the original decoder's
// range check (first byte < 0x1F) kept Freesat fields out of the table path,
// so they classify as default-charset text and the compressed payload is
// picked up separately by the pipeline. Kept bug-compatible on purpose.
var selectorTable = [0x20]encodingSlot{
	0x00: {encodingReserved, ""},
	0x01: {encodingFixed, "ISO-8859-5"},
	0x02: {encodingFixed, "ISO-8859-6"},
	0x03: {encodingFixed, "ISO-8859-7"},
	0x04: {encodingFixed, "ISO-8859-8"},
	0x05: {encodingFixed, "ISO-8859-9"},
	0x06: {encodingFixed, "ISO-8859-10"},
	0x07: {encodingFixed, "ISO-8859-11"},
	0x08: {encodingFixed, "ISO-8859-12"},
	0x09: {encodingFixed, "ISO-8859-13"},
	0x0A: {encodingFixed, "ISO-8859-14"},
	0x0B: {encodingFixed, "ISO-8859-15"},
	0x0C: {encodingReserved, ""},
	0x0D: {encodingReserved, ""},
	0x0E: {encodingReserved, ""},
	0x0F: {encodingReserved, ""},
	0x10: {encodingVariable, "ISO-8859-%d"},
	0x11: {encodingFixed, "ISO-10646/UCS2"},
	0x12: {encodingFixed, "KSC_5601"},
	0x13: {encodingFixed, "GB_2312-80"},
	0x14: {encodingFixed, "BIG5"},
	0x15: {encodingFixed, "ISO-10646/UTF8"},
	0x16: {encodingReserved, ""},
	0x17: {encodingReserved, ""},
	0x18: {encodingReserved, ""},
	0x19: {encodingReserved, ""},
	0x1A: {encodingReserved, ""},
	0x1B: {encodingReserved, ""},
	0x1C: {encodingReserved, ""},
	0x1D: {encodingReserved, ""},
	0x1E: {encodingReserved, ""},
	0x1F: {encodingCompressed, "ISO-10646/UTF8"},
}

// Resolve classifies the leading byte(s) of a raw text field and returns the
// source charset name plus the offset where text content begins. Resolution
// is a pure function of the first one to three bytes.
func Resolve(raw []byte) (charset string, offset int, err error) {
	if len(raw) == 0 {
		return "", 0, ErrEmptyField
	}
	b0 := raw[0]
	if b0 < compressedSelector {
		slot := selectorTable[b0]
		switch slot.kind {
		case encodingFixed:
			return slot.name, 1, nil
		case encodingVariable:
			// The two bytes after the selector are a big-endian table index
			// substituted into the name template.
			if len(raw) < 3 {
				return "", 0, ErrShortField
			}
			idx := int(raw[1])<<8 | int(raw[2])
			return fmt.Sprintf(slot.name, idx), 3, nil
		default:
			return "", 0, &ReservedEncodingError{Code: b0}
		}
	}
	// No selector: the first byte is already text content.
	return DefaultCharset, 0, nil
}
