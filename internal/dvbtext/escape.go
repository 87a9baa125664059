package dvbtext

// Entity escaping for XML character data.
//
// "&<> and the forbidden control codes are all single-byte code points in
// UTF-8, and every byte of a multi-byte sequence has its high bit set, so a
// byte-wise scan cannot misfire inside a multi-byte sequence and the input
// never needs to be decoded.

var xmlEntities = map[byte]string{
	'"': "&quot;",
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
}

// forbiddenXMLByte reports control codes that are illegal in XML 1.0
// character data.
func forbiddenXMLByte(b byte) bool {
	return b <= 0x08 || (b >= 0x0B && b <= 0x1F) || b == 0x7F
}

// appendXMLEscaped appends the escaped form of src to dst without growing
// dst past its capacity. Forbidden bytes are logged and copied through
// unchanged; stations emit them and downstream consumers cope. The result is
// not safe to escape twice: a second pass would double-escape every '&'.
func appendXMLEscaped(dst, src []byte, log Logger) ([]byte, error) {
	for _, b := range src {
		if ent, ok := xmlEntities[b]; ok {
			if len(dst)+len(ent) > cap(dst) {
				return dst, ErrFieldTooLong
			}
			dst = append(dst, ent...)
			continue
		}
		if forbiddenXMLByte(b) {
			log.Log(SeverityError, "forbidden char: %02x", b)
		}
		if len(dst) >= cap(dst) {
			return dst, ErrFieldTooLong
		}
		dst = append(dst, b)
	}
	return dst, nil
}

// Xmlify escapes s for inclusion in XML character data. Convenience wrapper
// for callers without a Decoder; diagnostics are discarded.
func Xmlify(s string) string {
	dst := make([]byte, 0, len(s)*maxEntityLen)
	dst, _ = appendXMLEscaped(dst, []byte(s), NopLogger)
	return string(dst)
}

// maxEntityLen is the longest substitution, "&quot;".
const maxEntityLen = 6
