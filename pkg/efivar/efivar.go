// Package efivar accesses UEFI variables through the Linux efivarfs
// filesystem. It only covers what the boot menu needs: enumerating Boot####
// load options, reading their content and writing BootNext.
package efivar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// GlobalVariable is the vendor GUID of the architecturally defined UEFI
// variables, Boot#### and BootNext among them.
var GlobalVariable = uuid.MustParse("8be4df61-93ca-11d2-aa0d-00e098032b8c")

var efivars = "/sys/firmware/efi/efivars"

var bootOptionRe = regexp.MustCompile(`^Boot[0-9A-Fa-f]{4}$`)

const (
	// cap on a single load option; anything larger is treated as
	// undecodable rather than read further
	maxReadSize = 1024

	attrNonVolatile       = 0x00000001
	attrBootServiceAccess = 0x00000002
	attrRuntimeAccess     = 0x00000004

	// EXT2_IMMUTABLE_FL from the inode flag ABI; x/sys/unix exports the
	// ioctls but not the flag bits
	fsImmutableFl = 0x10
)

var (
	ErrTooShort = errors.New("variable shorter than attribute word")
	ErrTooLarge = errors.New("variable exceeds read limit")
)

func variablePath(name string) string {
	return filepath.Join(efivars, fmt.Sprintf("%s-%s", name, GlobalVariable))
}

// BootOptionNames lists the Boot#### variables stored under the global
// vendor GUID, sorted by name. Files with other names or vendors are
// skipped silently.
func BootOptionNames() ([]string, error) {
	log.Trace().Msg("efivar.BootOptionNames()")

	dents, err := os.ReadDir(efivars)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", efivars, err)
	}

	var names []string
	for _, dent := range dents {
		name, vendor, ok := strings.Cut(dent.Name(), "-")
		if !ok || !bootOptionRe.MatchString(name) {
			continue
		}
		guid, err := uuid.Parse(vendor)
		if err != nil || guid != GlobalVariable {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// ReadBootOption returns the load option stored in the named Boot####
// variable, with the attribute word efivarfs prepends already stripped.
func ReadBootOption(name string) ([]byte, error) {
	path := variablePath(name)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: %q holds %d bytes", ErrTooShort, path, len(buf))
	}
	buf = buf[4:]
	if len(buf) > maxReadSize {
		return nil, fmt.Errorf("%w: %q holds %d bytes", ErrTooLarge, path, len(buf))
	}
	return buf, nil
}

// WriteBootNext points the firmware at the given load option for the next
// boot only. The variable is non-volatile and visible to both boot services
// and the running OS.
func WriteBootNext(id uint16) error {
	log.Debug().Uint16("id", id).Msg("efivar.WriteBootNext()")

	path := filepath.Join(efivars, fmt.Sprintf("BootNext-%s", GlobalVariable))
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint32(buf[0:4], attrNonVolatile|attrBootServiceAccess|attrRuntimeAccess)
	binary.LittleEndian.PutUint16(buf[4:6], id)

	if err := clearImmutable(path); err != nil {
		return fmt.Errorf("unprotecting %q: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

// clearImmutable drops the immutable inode flag efivarfs sets on every
// variable. Filesystems without inode flags report ENOTTY or EINVAL, which
// is fine; so is the variable not existing yet.
func clearImmutable(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return nil
		}
		return err
	}
	defer unix.Close(fd)

	flags, err := unix.IoctlGetInt(fd, unix.FS_IOC_GETFLAGS)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
			return nil
		}
		return err
	}
	if flags&fsImmutableFl == 0 {
		return nil
	}
	return unix.IoctlSetPointerInt(fd, unix.FS_IOC_SETFLAGS, flags&^fsImmutableFl)
}

// Reboot restarts the machine. The caller is expected to have written
// BootNext first.
func Reboot() error {
	return unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART)
}
