package mp4io

import "io"

// Reader is a byte stream that knows its absolute position.
type Reader interface {
	io.Reader
	Tell() int64
}

type posReader struct {
	r   io.Reader
	pos int64
}

// NewReader wraps r so that reads are position tracked. If r is already a
// Reader it is returned as is; if it is an io.Seeker the position starts at
// its current offset, otherwise at 0.
func NewReader(r io.Reader) Reader {
	if pr, ok := r.(Reader); ok {
		return pr
	}
	var base int64
	if s, ok := r.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			base = off
		}
	}
	return &posReader{r: r, pos: base}
}

// NewReaderAt wraps r with the position starting at base.
func NewReaderAt(r io.Reader, base int64) Reader {
	return &posReader{r: r, pos: base}
}

func (p *posReader) Read(b []byte) (n int, err error) {
	n, err = p.r.Read(b)
	p.pos += int64(n)
	return
}

func (p *posReader) Tell() int64 {
	return p.pos
}
