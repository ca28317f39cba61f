//go:build windows

package store

import "golang.org/x/sys/windows"

// conceal marks the state file hidden+system so it does not show up in
// a casual directory listing.
func conceal(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.SetFileAttributes(p, windows.FILE_ATTRIBUTE_HIDDEN|windows.FILE_ATTRIBUTE_SYSTEM)
}
