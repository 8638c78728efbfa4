//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || zos)

package exchange

import "syscall"

// errnoName has no symbolic names to offer outside unix systems.
func errnoName(syscall.Errno) string {
	return ""
}
