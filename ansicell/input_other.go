//go:build !unix

package ansicell

import (
	"io"
	"time"
)

// Fallback for platforms without select(2): a goroutine pumps reads into
// a channel and we poll it. Capped poll interval keeps signal and resize
// handling responsive even when asked to block.
func (s *Screen) readWithTimeout(timeout time.Duration) (int, error) {
	if s.pump == nil {
		s.pump = make(chan pumpRead)
		go func() {
			buf := make([]byte, 1024)
			for {
				n, err := s.In.Read(buf)
				if n == 0 && err == nil {
					err = io.EOF
				}
				data := make([]byte, n)
				copy(data, buf[:n])
				s.pump <- pumpRead{data: data, err: err}
				if err != nil {
					return
				}
			}
		}()
	}
	if timeout <= 0 || timeout > 250*time.Millisecond {
		timeout = 250 * time.Millisecond
	}
	select {
	case res := <-s.pump:
		n := copy(s.buf[:], res.data)
		return n, res.err
	case <-time.After(timeout):
		return 0, nil
	}
}
