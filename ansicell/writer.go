package ansicell

import (
	"bytes"
	"io"
)

// FlushWriter is a writer with explicit flush (bufio.Writer etc.).
type FlushWriter interface {
	io.Writer
	Flush() error
}

// Bufio is the subset of bufio.Writer the screen writes through, so
// tests and servers can substitute an in memory buffer.
type Bufio interface {
	FlushWriter
	io.StringWriter
	io.ByteWriter
	WriteRune(r rune) (n int, err error)
}

// CRLFWriter wraps a writer and converts \n to \r\n, needed for anything
// logging while the terminal is in raw mode.
type CRLFWriter struct {
	// Out is the underlying writer to write to.
	Out io.Writer
}

func (w *CRLFWriter) Write(buf []byte) (n int, err error) {
	return CRLFWrite(w.Out, buf)
}

func CRLFWrite(out io.Writer, buf []byte) (n int, err error) {
	// Somewhat copied from x/term's writeWithCRLF
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, '\n')
		todo := len(buf)
		if i >= 0 {
			todo = i
		}
		var nn int
		nn, err = out.Write(buf[:todo])
		n += nn
		if err != nil {
			return n, err
		}
		buf = buf[todo:]
		if i >= 0 {
			if _, err = out.Write([]byte{'\r', '\n'}); err != nil {
				return n, err
			}
			n++
			buf = buf[1:]
		}
	}
	// Auto flush
	if flusher, ok := out.(FlushWriter); ok {
		err = flusher.Flush()
	}
	return n, err
}

func (w *CRLFWriter) Flush() error {
	// flush already done at the end of Write.
	return nil
}

// FlushableBytesBuffer is a bytes.Buffer with a nop Flush, satisfying
// [Bufio] for headless screens (tests, http streaming).
type FlushableBytesBuffer struct {
	bytes.Buffer
}

func (b *FlushableBytesBuffer) Flush() error {
	return nil
}
