package dvbtext

import (
	"fmt"
	"strings"
	"testing"
)

type recordLogger struct {
	levels   []Severity
	messages []string
}

func (l *recordLogger) Log(level Severity, format string, args ...any) {
	l.levels = append(l.levels, level)
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func TestXmlifyEntities(t *testing.T) {
	got := Xmlify(`"&<>`)
	want := "&quot;&amp;&lt;&gt;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestXmlifyPassThrough(t *testing.T) {
	// Multi-byte UTF-8 must survive the byte-wise scan untouched.
	in := "héllo wörld 仮名 \tok"
	if got := Xmlify(in); got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestXmlifyNotIdempotent(t *testing.T) {
	once := Xmlify("&")
	twice := Xmlify(once)
	if twice != "&amp;amp;" {
		t.Fatalf("double escape: got %q, want %q", twice, "&amp;amp;")
	}
}

func TestForbiddenBytesLoggedAndKept(t *testing.T) {
	var forbidden []byte
	for b := 0x00; b <= 0x08; b++ {
		forbidden = append(forbidden, byte(b))
	}
	for b := 0x0B; b <= 0x1F; b++ {
		forbidden = append(forbidden, byte(b))
	}
	forbidden = append(forbidden, 0x7F)

	for _, b := range forbidden {
		log := &recordLogger{}
		in := []byte{'a', b, 'z'}
		out, err := appendXMLEscaped(make([]byte, 0, 64), in, log)
		if err != nil {
			t.Fatalf("byte 0x%02x: unexpected error: %v", b, err)
		}
		if string(out) != string(in) {
			t.Fatalf("byte 0x%02x: output %q, want %q", b, out, in)
		}
		if len(log.messages) != 1 || log.levels[0] != SeverityError {
			t.Fatalf("byte 0x%02x: want one error diagnostic, got %v", b, log.messages)
		}
		if !strings.Contains(log.messages[0], fmt.Sprintf("%02x", b)) {
			t.Fatalf("byte 0x%02x: diagnostic %q does not name the byte", b, log.messages[0])
		}
	}
}

func TestAllowedControlBytesNotReported(t *testing.T) {
	// 0x0D sits inside the forbidden 0x0B-0x1F range; only tab and
	// newline escape it.
	for _, b := range []byte{'\t', '\n'} {
		log := &recordLogger{}
		if _, err := appendXMLEscaped(make([]byte, 0, 8), []byte{b}, log); err != nil {
			t.Fatalf("byte 0x%02x: unexpected error: %v", b, err)
		}
		if len(log.messages) != 0 {
			t.Fatalf("byte 0x%02x wrongly reported: %v", b, log.messages)
		}
	}
}

func TestAppendXMLEscapedCapacity(t *testing.T) {
	_, err := appendXMLEscaped(make([]byte, 0, 3), []byte(`"`), NopLogger)
	if err != ErrFieldTooLong {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}
	_, err = appendXMLEscaped(make([]byte, 0, 2), []byte("abc"), NopLogger)
	if err != ErrFieldTooLong {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}
}
