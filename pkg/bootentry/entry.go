// Package bootentry decodes UEFI Boot#### load options into displayable
// boot entries. Only the parts of EFI_LOAD_OPTION needed for a boot menu are
// surfaced: the description string and a readable rendering of the device
// path. Optional data payloads are ignored.
package bootentry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EFI_LOAD_OPTION starts with a 4 byte attribute word followed by the
// 2 byte length of the device path list that trails the description.
const headerLen = 6

const bootPrefix = "Boot"

// ErrTruncated is returned when a variable buffer is too short to hold the
// regions its header declares.
var ErrTruncated = errors.New("boot entry buffer truncated")

// Entry is one decoded Boot#### load option.
type Entry struct {
	// ID is the numeric value of the variable name suffix, zero if the
	// suffix does not parse as hex.
	ID uint16
	// IDText is the four character suffix exactly as found in the
	// variable name.
	IDText string
	// Description is the human readable label, downgraded to ASCII.
	Description string
	// Path holds one readable element per device path node.
	Path []string
	// DisplayDefault is true when the entry belongs in the short menu,
	// i.e. it does not point at a generic fallback loader.
	DisplayDefault bool
}

// Decode parses the raw content of the variable called name into an Entry.
// The buffer is the EFI_LOAD_OPTION as stored in the variable, without the
// efivarfs attribute prefix.
func Decode(name string, data []byte) (*Entry, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	pathLen := int(binary.LittleEndian.Uint16(data[4:6]))
	desc, n := decodeUCS2(data[headerLen:])
	desc = asciiOnly(desc)

	rest := data[headerLen+n:]
	if pathLen > len(rest) {
		return nil, fmt.Errorf("%w: device path wants %d bytes, %d available", ErrTruncated, pathLen, len(rest))
	}

	path, displayDefault := walkDevicePath(rest[:pathLen])
	id, idText := parseBootID(name)

	return &Entry{
		ID:             id,
		IDText:         idText,
		Description:    desc,
		Path:           path,
		DisplayDefault: displayDefault,
	}, nil
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s, at: '%s'", e.Description, strings.Join(e.Path, " "))
}

// parseBootID splits the Boot#### variable name into its numeric id and the
// verbatim text suffix. A suffix that is not valid hex yields id zero while
// the text is kept. Callers only pass names carrying the Boot prefix.
func parseBootID(name string) (uint16, string) {
	text := name[len(bootPrefix):]
	id, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, text
	}
	return uint16(id), text
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUCS2 decodes a null-terminated UTF-16LE string from the front of buf
// and reports how many bytes were consumed, terminator included. Code units
// that do not decode come out as the replacement character.
func decodeUCS2(buf []byte) (string, int) {
	end := 0
	for ; end+1 < len(buf); end += 2 {
		if buf[end] == 0 && buf[end+1] == 0 {
			break
		}
	}

	consumed := end + 2 // terminator
	if consumed > len(buf) {
		consumed = len(buf)
	}

	decoded, _, err := transform.Bytes(utf16le.NewDecoder(), buf[:end])
	if err != nil {
		// the UTF-16 decoder substitutes instead of failing
		return "", consumed
	}

	return string(decoded), consumed
}

// asciiOnly turns every character outside ASCII into a single space,
// keeping descriptions safe for any terminal font.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x80 {
			return ' '
		}
		return r
	}, s)
}
