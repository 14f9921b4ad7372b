package bootentry

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeUTF16(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u), byte(u>>8))
	}
	return b
}

func filePathNode(path string) []byte {
	data := append(encodeUTF16(path), 0, 0)
	node := []byte{typeMedia, subTypeFilePath, 0, 0}
	binary.LittleEndian.PutUint16(node[2:4], uint16(4+len(data)))
	return append(node, data...)
}

func endNode() []byte {
	return []byte{typeEnd, 0xff, 0x04, 0x00}
}

// loadOption assembles an EFI_LOAD_OPTION buffer: attribute word, device
// path list length, null-terminated description, then the nodes.
func loadOption(desc string, nodes ...[]byte) []byte {
	var dp []byte
	for _, n := range nodes {
		dp = append(dp, n...)
	}

	buf := make([]byte, 6)
	binary.LittleEndian.PutUint32(buf[0:4], 0x00000001)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(len(dp)))
	buf = append(buf, encodeUTF16(desc)...)
	buf = append(buf, 0, 0)
	return append(buf, dp...)
}

func TestDecode(t *testing.T) {
	buf := loadOption("Ubuntu", filePathNode(`\EFI\ubuntu\grubx64.efi`), endNode())

	entry, err := Decode("Boot001A", buf)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1a), entry.ID)
	assert.Equal(t, "001A", entry.IDText)
	assert.Equal(t, "Ubuntu", entry.Description)
	assert.Equal(t, []string{`\efi\ubuntu\grubx64.efi`}, entry.Path)
	assert.True(t, entry.DisplayDefault)
}

func TestDecodeIsIdempotent(t *testing.T) {
	buf := loadOption("Fedora", filePathNode(`\EFI\fedora\shimx64.efi`), endNode())

	first, err := Decode("Boot0002", buf)
	require.NoError(t, err)
	second, err := Decode("Boot0002", buf)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeNonHexSuffix(t *testing.T) {
	buf := loadOption("Weird", filePathNode(`\EFI\weird\loader.efi`), endNode())

	entry, err := Decode("BootZZZZ", buf)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), entry.ID)
	assert.Equal(t, "ZZZZ", entry.IDText)
}

func TestDescriptionDowngradesToASCII(t *testing.T) {
	buf := loadOption("Fedora Ω", endNode())

	entry, err := Decode("Boot0001", buf)
	require.NoError(t, err)
	assert.Equal(t, "Fedora  ", entry.Description)
}

func TestDescriptionLoneSurrogate(t *testing.T) {
	// "A", an unpaired high surrogate, "B"
	raw := []byte{
		1, 0, 0, 0, // attributes
		0, 0, // no device path
		'A', 0x00, 0x00, 0xd8, 'B', 0x00, 0x00, 0x00,
	}

	entry, err := Decode("Boot0001", raw)
	require.NoError(t, err)
	assert.Equal(t, "A B", entry.Description)
}

func TestDescriptionStopsAtTerminator(t *testing.T) {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[4:6], 0)
	buf = append(buf, encodeUTF16("yes")...)
	buf = append(buf, 0, 0)
	buf = append(buf, encodeUTF16("no")...)

	entry, err := Decode("Boot0001", buf)
	require.NoError(t, err)
	assert.Equal(t, "yes", entry.Description)
}

func TestDescriptionWithoutTerminator(t *testing.T) {
	buf := make([]byte, 6)
	buf = append(buf, encodeUTF16("cut off")...)

	entry, err := Decode("Boot0001", buf)
	require.NoError(t, err)
	assert.Equal(t, "cut off", entry.Description)
	assert.Empty(t, entry.Path)
}

func TestFilePathKeepsUnicode(t *testing.T) {
	// only the description is downgraded to ASCII, path text keeps its
	// characters through the lowercasing
	buf := loadOption("ÜberOS", filePathNode(`\EFI\ÜberOS\loader.efi`), endNode())

	entry, err := Decode("Boot0005", buf)
	require.NoError(t, err)
	assert.Equal(t, " berOS", entry.Description)
	assert.Equal(t, []string{`\efi\überos\loader.efi`}, entry.Path)
	assert.True(t, entry.DisplayDefault)
}

func TestFallbackLoaderHidden(t *testing.T) {
	buf := loadOption("UEFI OS", filePathNode(`\EFI\BOOT\BOOTX64.EFI`), endNode())

	entry, err := Decode("Boot0000", buf)
	require.NoError(t, err)
	assert.False(t, entry.DisplayDefault)
}

func TestLastFilePathNodeWins(t *testing.T) {
	buf := loadOption("Chained",
		filePathNode(`\EFI\fedora\shimx64.efi`),
		filePathNode(`\EFI\Boot\bootx64.efi`),
		endNode())

	entry, err := Decode("Boot0003", buf)
	require.NoError(t, err)
	assert.False(t, entry.DisplayDefault)
	assert.Len(t, entry.Path, 2)

	buf = loadOption("Chained",
		filePathNode(`\EFI\Boot\bootx64.efi`),
		filePathNode(`\EFI\fedora\shimx64.efi`),
		endNode())

	entry, err = Decode("Boot0003", buf)
	require.NoError(t, err)
	assert.True(t, entry.DisplayDefault)
}

func TestOtherNodeTypes(t *testing.T) {
	hw := []byte{typeHardware, 0x01, 0x06, 0x00, 0xaa, 0xbb}
	buf := loadOption("PXE", hw, endNode())

	entry, err := Decode("Boot0004", buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hardware"}, entry.Path)
	assert.False(t, entry.DisplayDefault)
}

func TestTruncatedHeader(t *testing.T) {
	for size := 0; size < 6; size++ {
		_, err := Decode("Boot0001", make([]byte, size))
		assert.ErrorIs(t, err, ErrTruncated, "size %d", size)
	}
}

func TestDevicePathLongerThanBuffer(t *testing.T) {
	buf := loadOption("Phantom", endNode())
	binary.LittleEndian.PutUint16(buf[4:6], 512)

	_, err := Decode("Boot0001", buf)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestMalformedNodeStopsWalk(t *testing.T) {
	// node claims more bytes than the region holds
	bogus := []byte{typeMedia, subTypeFilePath, 0xff, 0x00}
	buf := loadOption("Bogus", bogus)

	entry, err := Decode("Boot0001", buf)
	require.NoError(t, err)
	assert.Empty(t, entry.Path)
	assert.False(t, entry.DisplayDefault)
}

func TestEntryString(t *testing.T) {
	buf := loadOption("Ubuntu", filePathNode(`\EFI\ubuntu\grubx64.efi`), endNode())
	entry, err := Decode("Boot0001", buf)
	require.NoError(t, err)

	assert.Equal(t, `Ubuntu, at: '\efi\ubuntu\grubx64.efi'`, entry.String())
}
