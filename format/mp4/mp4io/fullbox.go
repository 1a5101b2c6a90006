package mp4io

import (
	"errors"
	"fmt"
	"io"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

// GetFullBoxExt decodes the version byte and 24 bit flags at the start of b.
func GetFullBoxExt(b []byte) (version uint8, flags uint32) {
	return pio.U8(b[0:]), pio.U24BE(b[1:])
}

// PutFullBoxExt encodes version and the low 24 bits of flags into b.
func PutFullBoxExt(b []byte, version uint8, flags uint32) {
	pio.PutU8(b[0:], version)
	pio.PutU24BE(b[1:], flags)
}

// ReadFullBoxExt reads the 4 byte {version, flags} prefix of a full box.
func ReadFullBoxExt(r io.Reader) (version uint8, flags uint32, err error) {
	var b [FullBoxExtLen]byte
	var n int
	if n, err = io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			offset := int64(-1)
			if pr, ok := r.(Reader); ok {
				offset = pr.Tell() - int64(n)
			}
			err = &MalformedHeaderError{Offset: offset, Reason: fmt.Sprintf("got %d of %d full box bytes", n, FullBoxExtLen)}
		}
		return
	}
	version, flags = GetFullBoxExt(b[:])
	return
}

// WriteFullBoxExt writes the 4 byte {version, flags} prefix of a full box.
func WriteFullBoxExt(w io.Writer, version uint8, flags uint32) error {
	var b [FullBoxExtLen]byte
	PutFullBoxExt(b[:], version, flags)
	_, err := w.Write(b[:])
	return err
}

// getFullBoxExt is GetFullBoxExt with a bounds check for payload parsers.
func getFullBoxExt(b []byte, offset int64) (version uint8, flags uint32, err error) {
	if len(b) < FullBoxExtLen {
		err = parseErr("Version", offset, io.ErrUnexpectedEOF)
		return
	}
	version, flags = GetFullBoxExt(b)
	return
}
