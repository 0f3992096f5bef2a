//go:build unix

package ansicell

import (
	"errors"
	"io"
	"syscall"
	"time"

	"fortio.org/log"
	"golang.org/x/sys/unix"
)

// readWithTimeout reads whatever input is available within the timeout
// (0 blocks). Returns 0 bytes on timeout or interrupted select, so the
// caller can recheck its signal channels.
func (s *Screen) readWithTimeout(timeout time.Duration) (int, error) {
	var tv *unix.Timeval
	if timeout > 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}
	var readfds unix.FdSet
	readfds.Set(s.FdIn)
	n, err := unix.Select(s.FdIn+1, &readfds, nil, nil, tv)
	if errors.Is(err, syscall.EINTR) {
		log.LogVf("Interrupted select")
		return 0, nil
	}
	if err != nil {
		log.Errf("Select error: %v", err)
		return 0, err
	}
	if n == 0 {
		return 0, nil // timeout case
	}
	n, err = unix.Read(s.FdIn, s.buf[:])
	if n == 0 && err == nil {
		err = io.EOF
	}
	return n, err
}
