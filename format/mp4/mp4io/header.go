package mp4io

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

// BoxHeader is the {size, type} prefix of every box.
type BoxHeader struct {
	Type      Tag
	Size      uint64 // total box size, header included
	Offset    int64  // stream position of the first header byte
	HeaderLen uint64 // 8, or 16 when the extended size is present
}

// NewBoxHeader returns the header for a box of the given total size,
// switching to the extended form when size does not fit in 32 bits.
func NewBoxHeader(tag Tag, size uint64) BoxHeader {
	h := BoxHeader{Type: tag, Size: size, HeaderLen: HeaderSize}
	if size > math.MaxUint32 {
		h.HeaderLen = LargeHeaderSize
	}
	return h
}

// HeaderLenFor returns the header length of a box carrying payload bytes.
func HeaderLenFor(payload uint64) uint64 {
	if payload > math.MaxUint32-HeaderSize {
		return LargeHeaderSize
	}
	return HeaderSize
}

func boxLen(payload uint64) uint64 {
	return HeaderLenFor(payload) + payload
}

func (h BoxHeader) PayloadLen() uint64 {
	return h.Size - h.HeaderLen
}

// PayloadOffset is the stream position right after the header.
func (h BoxHeader) PayloadOffset() int64 {
	return h.Offset + int64(h.HeaderLen) //nolint:gosec // header length is 8 or 16
}

func (h BoxHeader) String() string {
	return fmt.Sprintf("%s offset=%d size=%d", h.Type, h.Offset, h.Size)
}

// ReadBoxHeader decodes a header from r. A stream that ends before the first
// header byte yields io.EOF; one that ends inside the header yields a
// MalformedHeaderError.
func ReadBoxHeader(r Reader) (h BoxHeader, err error) {
	h.Offset = r.Tell()

	var b [LargeHeaderSize]byte
	var n int
	if n, err = io.ReadFull(r, b[:HeaderSize]); err != nil {
		if errors.Is(err, io.EOF) {
			return h, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = &MalformedHeaderError{
				Offset: h.Offset,
				Reason: fmt.Sprintf("got %d of %d header bytes", n, HeaderSize),
			}
		}
		return h, err
	}

	size := uint64(pio.U32BE(b[0:]))
	h.Type = Tag(pio.U32BE(b[4:]))
	h.HeaderLen = HeaderSize

	switch size {
	case 0:
		return h, &MalformedHeaderError{Offset: h.Offset, Reason: fmt.Sprintf("%s: size 0 (box extends to end of file) is not supported", h.Type)}
	case 1:
		if n, err = io.ReadFull(r, b[HeaderSize:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = &MalformedHeaderError{
					Offset: h.Offset,
					Reason: fmt.Sprintf("%s: got %d of 8 extended size bytes", h.Type, n),
				}
			}
			return h, err
		}
		size = pio.U64BE(b[HeaderSize:])
		h.HeaderLen = LargeHeaderSize
	}

	if size < h.HeaderLen {
		return h, &MalformedHeaderError{Offset: h.Offset, Reason: fmt.Sprintf("%s: size %d is below header length %d", h.Type, size, h.HeaderLen)}
	}
	h.Size = size
	return h, nil
}

// Marshal writes the header, using the extended form when Size does not fit
// in 32 bits.
func (h BoxHeader) Marshal(w io.Writer) (uint64, error) {
	var b [LargeHeaderSize]byte
	n := h.marshal(b[:])
	written, err := w.Write(b[:n])
	return uint64(written), err //nolint:gosec // n <= 16
}

func (h BoxHeader) marshal(b []byte) (n int) {
	pio.PutU32BE(b[4:], uint32(h.Type))
	if h.Size > math.MaxUint32 {
		pio.PutU32BE(b[0:], 1)
		pio.PutU64BE(b[8:], h.Size)
		return LargeHeaderSize
	}
	pio.PutU32BE(b[0:], uint32(h.Size))
	return HeaderSize
}

// writeBox writes a header for tag followed by payload.
func writeBox(w io.Writer, tag Tag, payload []byte) (n uint64, err error) {
	if n, err = NewBoxHeader(tag, boxLen(uint64(len(payload)))).Marshal(w); err != nil {
		return
	}
	m, err := w.Write(payload)
	n += uint64(m) //nolint:gosec // m >= 0
	return
}

const directReadLimit = 1 << 20

// readPayload consumes exactly the payload of the box described by h.
func readPayload(r Reader, h BoxHeader) ([]byte, error) {
	want := h.PayloadLen()
	if want == 0 {
		return nil, nil
	}
	var b []byte
	var err error
	if want <= directReadLimit {
		b = make([]byte, want)
		var n int
		n, err = io.ReadFull(r, b)
		b = b[:n]
	} else {
		// grow with the data actually present instead of trusting the header
		b, err = io.ReadAll(io.LimitReader(r, int64(want))) //nolint:gosec // bounded by LimitReader semantics
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	if uint64(len(b)) < want {
		return nil, &TruncatedPayloadError{Tag: h.Type, Offset: h.Offset, Want: want, Got: uint64(len(b))}
	}
	return b, nil
}

// SkipBox discards the payload of the box described by h.
func SkipBox(r Reader, h BoxHeader) error {
	want := h.PayloadLen()
	if want > math.MaxInt64 {
		return &TruncatedPayloadError{Tag: h.Type, Offset: h.Offset, Want: want}
	}
	n, err := io.CopyN(io.Discard, r, int64(want))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &TruncatedPayloadError{Tag: h.Type, Offset: h.Offset, Want: want, Got: uint64(n)} //nolint:gosec // n >= 0
		}
		return err
	}
	return nil
}
