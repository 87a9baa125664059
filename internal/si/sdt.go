package si

import "encoding/binary"

const (
	tableSDTActual = 0x42
	tableSDTOther  = 0x46

	descService = 0x48

	sdtHeaderLen = 11
)

func (s *Scanner) parseSDT(payload []byte) {
	sec := tableSection(payload, sdtHeaderLen)
	if sec == nil || (sec[0] != tableSDTActual && sec[0] != tableSDTOther) {
		return
	}
	entries := sec[sdtHeaderLen:]
	pos := 0
	for pos+5 <= len(entries) {
		serviceID := binary.BigEndian.Uint16(entries[pos : pos+2])
		descLen := int(binary.BigEndian.Uint16(entries[pos+3:pos+5]) & 0x0FFF)
		descStart := pos + 5
		descEnd := descStart + descLen
		if descEnd > len(entries) {
			break
		}
		s.addService(serviceID, entries[descStart:descEnd])
		pos = descEnd
	}
}

func (s *Scanner) addService(serviceID uint16, descriptors []byte) {
	pos := 0
	for pos+2 <= len(descriptors) {
		tag := descriptors[pos]
		length := int(descriptors[pos+1])
		dataStart := pos + 2
		dataEnd := dataStart + length
		if dataEnd > len(descriptors) {
			break
		}
		if tag == descService && length >= 3 {
			data := descriptors[dataStart:dataEnd]
			serviceType := serviceTypeName(data[0])
			provLen := int(data[1])
			if 2+provLen >= len(data) {
				break
			}
			provider := s.decodeField(data[2 : 2+provLen])
			nameLen := int(data[2+provLen])
			if 3+provLen+nameLen > len(data) {
				break
			}
			name := s.decodeField(data[3+provLen : 3+provLen+nameLen])

			if idx, seen := s.services[serviceID]; seen {
				// Later sections may fill in fields an earlier one lacked.
				if s.result.Services[idx].Name == "" {
					s.result.Services[idx].Name = name
				}
				if s.result.Services[idx].Provider == "" {
					s.result.Services[idx].Provider = provider
				}
			} else {
				s.services[serviceID] = len(s.result.Services)
				s.result.Services = append(s.result.Services, Service{
					ServiceID: serviceID,
					Name:      name,
					Provider:  provider,
					Type:      serviceType,
				})
			}
		}
		pos = dataEnd
	}
}

func serviceTypeName(value byte) string {
	switch value {
	case 0x01:
		return "digital television"
	case 0x02:
		return "digital radio sound"
	case 0x16:
		return "advanced codec SD digital television"
	case 0x19:
		return "advanced codec HD digital television"
	default:
		return ""
	}
}
