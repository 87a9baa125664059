package si

import (
	"encoding/binary"
	"time"
)

const (
	descShortEvent = 0x4D

	eitHeaderLen = 14
)

func (s *Scanner) parseEIT(payload []byte) {
	sec := tableSection(payload, eitHeaderLen)
	if sec == nil {
		return
	}
	// 0x4E/0x4F present/following, 0x50-0x6F schedule.
	if sec[0] < 0x4E || sec[0] > 0x6F {
		return
	}
	serviceID := binary.BigEndian.Uint16(sec[3:5])
	entries := sec[eitHeaderLen:]
	pos := 0
	for pos+12 <= len(entries) {
		eventID := binary.BigEndian.Uint16(entries[pos : pos+2])
		start := decodeEventTime(entries[pos+2 : pos+7])
		duration := decodeBCDDuration(entries[pos+7 : pos+10])
		descLen := int(binary.BigEndian.Uint16(entries[pos+10:pos+12]) & 0x0FFF)
		descStart := pos + 12
		descEnd := descStart + descLen
		if descEnd > len(entries) {
			break
		}
		s.addEvent(serviceID, eventID, start, duration, entries[descStart:descEnd])
		pos = descEnd
	}
}

func (s *Scanner) addEvent(serviceID, eventID uint16, start time.Time, duration time.Duration, descriptors []byte) {
	key := uint32(serviceID)<<16 | uint32(eventID)
	if _, seen := s.events[key]; seen {
		return
	}

	pos := 0
	var language, title, summary string
	for pos+2 <= len(descriptors) {
		tag := descriptors[pos]
		length := int(descriptors[pos+1])
		dataStart := pos + 2
		dataEnd := dataStart + length
		if dataEnd > len(descriptors) {
			break
		}
		if tag == descShortEvent && length >= 5 {
			data := descriptors[dataStart:dataEnd]
			language = string(data[0:3])
			nameLen := int(data[3])
			if 4+nameLen >= len(data) {
				break
			}
			title = s.decodeField(data[4 : 4+nameLen])
			textLen := int(data[4+nameLen])
			if 5+nameLen+textLen > len(data) {
				break
			}
			summary = s.decodeField(data[5+nameLen : 5+nameLen+textLen])
		}
		pos = dataEnd
	}

	if title == "" && summary == "" {
		return
	}
	s.events[key] = struct{}{}
	s.result.Events = append(s.result.Events, Event{
		ServiceID: serviceID,
		EventID:   eventID,
		Start:     start,
		Duration:  duration,
		Language:  language,
		Title:     title,
		Summary:   summary,
	})
}

// decodeEventTime converts the 5-byte EIT start time (16-bit MJD plus six
// BCD digits hhmmss) to UTC. The all-ones pattern means "undefined".
func decodeEventTime(b []byte) time.Time {
	mjd := int(binary.BigEndian.Uint16(b[0:2]))
	if mjd == 0xFFFF {
		return time.Time{}
	}
	// ETSI EN 300 468 annex C conversion.
	yp := int((float64(mjd) - 15078.2) / 365.25)
	mp := int((float64(mjd) - 14956.1 - float64(int(float64(yp)*365.25))) / 30.6001)
	day := mjd - 14956 - int(float64(yp)*365.25) - int(float64(mp)*30.6001)
	k := 0
	if mp == 14 || mp == 15 {
		k = 1
	}
	year := yp + k + 1900
	month := mp - 1 - k*12

	hh, okH := fromBCD(b[2])
	mm, okM := fromBCD(b[3])
	ss, okS := fromBCD(b[4])
	if !okH || !okM || !okS {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.UTC)
}

func decodeBCDDuration(b []byte) time.Duration {
	h, okH := fromBCD(b[0])
	m, okM := fromBCD(b[1])
	s, okS := fromBCD(b[2])
	if !okH || !okM || !okS {
		return 0
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

func fromBCD(b byte) (int, bool) {
	hi := int(b >> 4)
	lo := int(b & 0x0F)
	if hi > 9 || lo > 9 {
		return 0, false
	}
	return hi*10 + lo, true
}
