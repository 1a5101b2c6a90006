package mp4io

import (
	"fmt"
	"io"
	"math"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const TFDT = Tag(0x74666474)

// TrackFragDecodeTime is a tfdt box. Version 0 stores Time in 32 bits,
// version 1 in 64 bits.
type TrackFragDecodeTime struct {
	Version uint8  `json:"version"`
	Flags   uint32 `json:"flags"`
	Time    uint64 `json:"base_media_decode_time"`
}

// NewTrackFragDecodeTime returns a tfdt using the smallest version that
// holds t.
func NewTrackFragDecodeTime(t uint64) *TrackFragDecodeTime {
	tfdt := &TrackFragDecodeTime{Time: t}
	if t > math.MaxUint32 {
		tfdt.Version = 1
	}
	return tfdt
}

func (TrackFragDecodeTime) Tag() Tag {
	return TFDT
}

func (tfdt TrackFragDecodeTime) payloadLen() uint64 {
	if tfdt.Version == 0 {
		return FullBoxExtLen + 4
	}
	return FullBoxExtLen + 8
}

func (tfdt TrackFragDecodeTime) Len() uint64 {
	return HeaderSize + tfdt.payloadLen()
}

// Marshal refuses to narrow: a version 0 box whose Time exceeds 32 bits
// fails with DecodeTimeOverflowError before anything is written.
func (tfdt TrackFragDecodeTime) Marshal(w io.Writer) (uint64, error) {
	switch tfdt.Version {
	case 0:
		if tfdt.Time > math.MaxUint32 {
			return 0, &DecodeTimeOverflowError{Time: tfdt.Time}
		}
	case 1:
	default:
		return 0, &UnsupportedVersionError{Tag: TFDT, Version: tfdt.Version}
	}
	b := make([]byte, tfdt.payloadLen())
	tfdt.marshal(b)
	return writeBox(w, TFDT, b)
}

func (tfdt TrackFragDecodeTime) marshal(b []byte) (n int) {
	PutFullBoxExt(b[n:], tfdt.Version, tfdt.Flags)
	n += FullBoxExtLen
	if tfdt.Version == 0 {
		pio.PutU32BE(b[n:], uint32(tfdt.Time)) //nolint:gosec // range checked in Marshal
		n += 4
	} else {
		pio.PutU64BE(b[n:], tfdt.Time)
		n += 8
	}
	return
}

func (tfdt *TrackFragDecodeTime) Unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return tfdt.unmarshal(b, h.PayloadOffset())
}

func (tfdt *TrackFragDecodeTime) unmarshal(b []byte, offset int64) (err error) {
	n := 0
	if tfdt.Version, tfdt.Flags, err = getFullBoxExt(b, offset); err != nil {
		return
	}
	n += FullBoxExtLen
	switch tfdt.Version {
	case 0:
		if len(b) < n+4 {
			return parseErr("Time", offset+int64(n), io.ErrUnexpectedEOF)
		}
		tfdt.Time = uint64(pio.U32BE(b[n:]))
	case 1:
		if len(b) < n+8 {
			return parseErr("Time", offset+int64(n), io.ErrUnexpectedEOF)
		}
		tfdt.Time = pio.U64BE(b[n:])
	default:
		return &UnsupportedVersionError{Tag: TFDT, Version: tfdt.Version}
	}
	return nil
}

func (TrackFragDecodeTime) Children() []Box {
	return nil
}

func (tfdt TrackFragDecodeTime) String() string {
	return fmt.Sprintf("base_media_decode_time=%d", tfdt.Time)
}
