//go:build !windows

// internal/signals/notify_unix.go
package signals

import (
	"os"
	"syscall"
)

var watched = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGWINCH,
}

func isResize(sig os.Signal) bool {
	return sig == syscall.SIGWINCH
}
