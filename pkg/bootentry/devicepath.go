package bootentry

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Device path node types, UEFI specification section 10.3.
const (
	typeHardware  = 0x01
	typeACPI      = 0x02
	typeMessaging = 0x03
	typeMedia     = 0x04
	typeBBS       = 0x05
	typeEnd       = 0x7f

	// media device path subtype carrying a file path
	subTypeFilePath = 0x04
)

// Removable media fallback loaders for x86-64, IA32 and AArch64. Entries
// pointing at one of these are hidden from the short menu.
var fallbackLoaders = []string{
	`\efi\boot\bootx64.efi`,
	`\efi\boot\bootia.efi`,
	`\efi\boot\bootaa64.efi`,
}

// walkDevicePath renders every node of a device path list into a readable
// segment and classifies the entry for the short menu. File path nodes are
// lowercased and matched against the fallback loader paths; when a path has
// several file path nodes the last one decides. A malformed node header
// stops the walk with whatever was collected so far.
func walkDevicePath(region []byte) ([]string, bool) {
	var segments []string
	displayDefault := false

	for len(region) >= 4 {
		nodeType := region[0]
		if nodeType == typeEnd {
			break
		}

		length := int(binary.LittleEndian.Uint16(region[2:4]))
		if length < 4 || length > len(region) {
			break
		}

		if nodeType == typeMedia && region[1] == subTypeFilePath {
			text, _ := decodeUCS2(region[4:length])
			lower := strings.ToLower(text)
			displayDefault = !isFallbackLoader(lower)
			segments = append(segments, lower)
		} else {
			segments = append(segments, typeName(nodeType))
		}

		region = region[length:]
	}

	return segments, displayDefault
}

func isFallbackLoader(path string) bool {
	for _, marker := range fallbackLoaders {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

func typeName(t byte) string {
	switch t {
	case typeHardware:
		return "Hardware"
	case typeACPI:
		return "ACPI"
	case typeMessaging:
		return "Messaging"
	case typeMedia:
		return "Media"
	case typeBBS:
		return "BBS"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", t)
	}
}
