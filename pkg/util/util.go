package util

import "os"

// IsRoot reports whether the process runs with root privileges. Writing
// efivarfs variables and calling reboot(2) both require them.
func IsRoot() (bool, error) {
	return os.Geteuid() == 0, nil
}
