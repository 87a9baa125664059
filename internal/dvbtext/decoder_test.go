package dvbtext

import (
	"errors"
	"strings"
	"testing"
)

// stubEngine records Open calls and hands out identity handles.
type stubEngine struct {
	opens  []string
	closes int
	fail   map[string]bool
}

func (e *stubEngine) Open(charset string) (Handle, error) {
	e.opens = append(e.opens, charset)
	if e.fail[charset] {
		return nil, &UnsupportedCharsetError{Name: charset}
	}
	return &stubHandle{engine: e}, nil
}

type stubHandle struct {
	engine *stubEngine
}

func (h *stubHandle) Convert(dst, src []byte) (int, error) {
	if len(src) > len(dst) {
		return 0, ErrFieldTooLong
	}
	return copy(dst, src), nil
}

func (h *stubHandle) Close() error {
	h.engine.closes++
	return nil
}

func TestConvertTextISO8859Field(t *testing.T) {
	d := NewDecoder()
	got, err := d.ConvertText([]byte{0x01, 'H', 'i'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hi" {
		t.Fatalf("got %q, want %q", got, "Hi")
	}
}

func TestConvertTextVariableSelector(t *testing.T) {
	d := NewDecoder()
	got, err := d.ConvertText([]byte{0x10, 0x00, 0x05, 'A'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A" {
		t.Fatalf("got %q, want %q", got, "A")
	}
}

func TestConvertTextDefaultCharsetEscapes(t *testing.T) {
	d := NewDecoder()
	got, err := d.ConvertText([]byte{'<', '3', '>'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "&lt;3&gt;" {
		t.Fatalf("got %q, want %q", got, "&lt;3&gt;")
	}
}

func TestConvertTextReservedEncoding(t *testing.T) {
	log := &recordLogger{}
	d := NewDecoder(WithLogger(log))
	got, err := d.ConvertText([]byte{0x0C})
	var reserved *ReservedEncodingError
	if !errors.As(err, &reserved) || reserved.Code != 0x0C {
		t.Fatalf("want ReservedEncodingError(0x0C), got %v", err)
	}
	if got != "" {
		t.Fatalf("reserved field must degrade to empty, got %q", got)
	}
	if len(log.messages) != 1 || log.levels[0] != SeverityWarning {
		t.Fatalf("want one warning, got %v", log.messages)
	}
	if !strings.Contains(log.messages[0], "0c") {
		t.Fatalf("warning %q does not name the code", log.messages[0])
	}
}

func TestConvertTextUTF8Selector(t *testing.T) {
	d := NewDecoder()
	raw := append([]byte{0x15}, []byte("Tom & Jerry")...)
	got, err := d.ConvertText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Tom &amp; Jerry" {
		t.Fatalf("got %q, want %q", got, "Tom &amp; Jerry")
	}
}

func TestCharsetCacheReopensOnlyOnChange(t *testing.T) {
	engine := &stubEngine{}
	d := NewDecoder(WithEngine(engine))

	for i := 0; i < 3; i++ {
		if _, err := d.ConvertText([]byte{0x01, 'a'}); err != nil {
			t.Fatalf("conversion %d: %v", i, err)
		}
	}
	if len(engine.opens) != 1 {
		t.Fatalf("same charset three times: %d opens, want 1", len(engine.opens))
	}
	if engine.closes != 0 {
		t.Fatalf("no handle should close yet, got %d", engine.closes)
	}

	if _, err := d.ConvertText([]byte{0x02, 'a'}); err != nil {
		t.Fatalf("charset change: %v", err)
	}
	if len(engine.opens) != 2 || engine.closes != 1 {
		t.Fatalf("after change: %d opens %d closes, want 2 and 1", len(engine.opens), engine.closes)
	}
	if engine.opens[1] != "ISO-8859-6" {
		t.Fatalf("second open for %q, want ISO-8859-6", engine.opens[1])
	}

	// Switching back is a fresh open; only the previous name is cached.
	if _, err := d.ConvertText([]byte{0x01, 'a'}); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if len(engine.opens) != 3 || engine.closes != 2 {
		t.Fatalf("after switch back: %d opens %d closes, want 3 and 2", len(engine.opens), engine.closes)
	}
}

func TestUnsupportedCharsetIsRecoverable(t *testing.T) {
	engine := &stubEngine{fail: map[string]bool{"ISO-8859-5": true}}
	log := &recordLogger{}
	d := NewDecoder(WithEngine(engine), WithLogger(log))

	got, err := d.ConvertText([]byte{0x01, 'a'})
	var unsupported *UnsupportedCharsetError
	if !errors.As(err, &unsupported) || unsupported.Name != "ISO-8859-5" {
		t.Fatalf("want UnsupportedCharsetError(ISO-8859-5), got %v", err)
	}
	if got != "" {
		t.Fatalf("field must degrade to empty, got %q", got)
	}

	// A failed open must not poison the cache: the next supported charset
	// still converts.
	if _, err := d.ConvertText([]byte{0x02, 'a'}); err != nil {
		t.Fatalf("decoder unusable after failed open: %v", err)
	}
}

func TestCompressedFieldInvokesDecompressor(t *testing.T) {
	var got []byte
	decomp := func(compressed []byte) []byte {
		got = append([]byte(nil), compressed...)
		return []byte("a<b")
	}
	// The engine must never be touched on the compressed path.
	engine := &stubEngine{fail: map[string]bool{DefaultCharset: true}}
	d := NewDecoder(WithEngine(engine), WithDecompressor(decomp))

	raw := []byte{0x1F, 0xAA, 0xBB}
	out, err := d.ConvertText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The selector byte stays in the payload handed to the decompressor.
	if string(got) != string(raw) {
		t.Fatalf("decompressor got %x, want %x", got, raw)
	}
	if out != "a&lt;b" {
		t.Fatalf("got %q, want %q", out, "a&lt;b")
	}
	if len(engine.opens) != 0 {
		t.Fatalf("compressed field must bypass the conversion engine, saw opens %v", engine.opens)
	}
}

func TestCompressedFieldWithoutDecompressor(t *testing.T) {
	log := &recordLogger{}
	d := NewDecoder(WithLogger(log))
	got, err := d.ConvertText([]byte{0x1F, 0x01})
	if !errors.Is(err, ErrNoDecompressor) {
		t.Fatalf("want ErrNoDecompressor, got %v", err)
	}
	if got != "" {
		t.Fatalf("want empty output, got %q", got)
	}
	if len(log.messages) != 1 {
		t.Fatalf("want one warning, got %v", log.messages)
	}
}

func TestConvertTextFieldTooLong(t *testing.T) {
	d := NewDecoder()
	raw := make([]byte, maxFieldLen+1)
	for i := range raw {
		raw[i] = 'a'
	}
	if _, err := d.ConvertText(raw); !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}
}

func TestConvertTextEmptyField(t *testing.T) {
	d := NewDecoder()
	if _, err := d.ConvertText(nil); !errors.Is(err, ErrEmptyField) {
		t.Fatalf("want ErrEmptyField, got %v", err)
	}
}

func TestConvertTextInvalidSourceBytesKeepsOutput(t *testing.T) {
	log := &recordLogger{}
	d := NewDecoder(WithLogger(log))
	// 0xFF is not a valid EUC-KR lead byte.
	got, err := d.ConvertText([]byte{0x12, 'o', 'k', 0xFF})
	if !errors.Is(err, ErrInvalidSourceBytes) {
		t.Fatalf("want ErrInvalidSourceBytes, got %v", err)
	}
	if !strings.HasPrefix(got, "ok") {
		t.Fatalf("partial output lost: %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Fatalf("bad byte should surface as U+FFFD: %q", got)
	}
}

func TestDecoderClose(t *testing.T) {
	engine := &stubEngine{}
	d := NewDecoder(WithEngine(engine))
	if _, err := d.ConvertText([]byte{0x01, 'a'}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if engine.closes != 1 {
		t.Fatalf("want 1 close, got %d", engine.closes)
	}
	// Reusable after Close.
	if _, err := d.ConvertText([]byte{0x01, 'a'}); err != nil {
		t.Fatalf("convert after close: %v", err)
	}
	if len(engine.opens) != 2 {
		t.Fatalf("want reopen after close, got %d opens", len(engine.opens))
	}
}
