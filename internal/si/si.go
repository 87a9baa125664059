// Package si extracts text-bearing entries from DVB service-information
// tables in an MPEG transport stream and decodes them through the dvbtext
// pipeline. Section parsing is best-effort: malformed sections are skipped,
// never fatal.
package si

import (
	"bufio"
	"io"
	"time"

	"github.com/Saner2oo2/tv-grab-dvb-plus/internal/dvbtext"
)

const (
	packetSize = 188
	syncByte   = 0x47

	pidSDT = 0x0011
	pidEIT = 0x0012
)

// Service is one entry from the Service Description Table. Text fields are
// decoded UTF-8, already XML-escaped.
type Service struct {
	ServiceID uint16
	Name      string
	Provider  string
	Type      string
}

// Event is one entry from the Event Information Table.
type Event struct {
	ServiceID uint16
	EventID   uint16
	Start     time.Time // UTC; zero when the table carries no start time
	Duration  time.Duration
	Language  string
	Title     string
	Summary   string
}

// Result is everything a scan collected.
type Result struct {
	Services []Service
	Events   []Event
}

// Scanner walks transport stream packets and collects SDT and EIT text.
type Scanner struct {
	dec *dvbtext.Decoder
	log dvbtext.Logger

	services map[uint16]int
	events   map[uint32]struct{}
	result   Result
}

// NewScanner returns a Scanner decoding text through dec. A nil dec gets a
// default decoder with no Freesat support.
func NewScanner(dec *dvbtext.Decoder, log dvbtext.Logger) *Scanner {
	if dec == nil {
		dec = dvbtext.NewDecoder()
	}
	if log == nil {
		log = dvbtext.NopLogger
	}
	return &Scanner{
		dec:      dec,
		log:      log,
		services: map[uint16]int{},
		events:   map[uint32]struct{}{},
	}
}

// Scan reads transport stream packets until EOF and returns the collected
// services and events. Only sections that start at a payload-unit boundary
// are parsed; sections spanning packets are ignored, which is enough for the
// small SDT/EIT sections broadcast in practice.
func (s *Scanner) Scan(r io.Reader) (Result, error) {
	reader := bufio.NewReaderSize(r, packetSize*200)
	packet := make([]byte, packetSize)
	for {
		if _, err := io.ReadFull(reader, packet); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return s.result, err
		}
		if packet[0] != syncByte {
			continue
		}
		pid := uint16(packet[1]&0x1F)<<8 | uint16(packet[2])
		payloadStart := packet[1]&0x40 != 0
		if !payloadStart {
			continue
		}
		adaptation := (packet[3] & 0x30) >> 4
		payloadIndex := 4
		if adaptation == 2 {
			continue
		}
		if adaptation == 3 {
			payloadIndex += 1 + int(packet[4])
		}
		if payloadIndex >= len(packet) {
			continue
		}
		payload := packet[payloadIndex:]

		switch pid {
		case pidSDT:
			s.parseSDT(payload)
		case pidEIT:
			s.parseEIT(payload)
		}
	}
	return s.result, nil
}

// tableSection strips the pointer field and validates the section length,
// returning the section (header included, CRC excluded) or nil. headerLen is
// the fixed header size of the table being parsed.
func tableSection(payload []byte, headerLen int) []byte {
	if len(payload) < 1 {
		return nil
	}
	pointer := int(payload[0])
	if 1+pointer+3 > len(payload) {
		return nil
	}
	sec := payload[1+pointer:]
	sectionLen := int(sec[1]&0x0F)<<8 | int(sec[2])
	total := 3 + sectionLen
	if total > len(sec) || total < headerLen+4 {
		return nil
	}
	// Drop the trailing CRC32; it is not verified here.
	return sec[:total-4]
}

// decodeField runs one raw text field through the pipeline. Per-field errors
// degrade the field rather than the scan: invalid source bytes keep the
// partial output, everything else becomes empty.
func (s *Scanner) decodeField(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	out, err := s.dec.ConvertText(raw)
	if err != nil {
		s.log.Log(dvbtext.SeverityWarning, "text field: %v", err)
	}
	return out
}
