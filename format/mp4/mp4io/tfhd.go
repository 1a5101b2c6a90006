package mp4io

import (
	"fmt"
	"io"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const (
	TFHD                  = Tag(0x74666864)
	TFHDBaseDataOffset    = uint32(0x01)
	TFHDStsdID            = uint32(0x02)
	TFHDDefaultDuration   = uint32(0x08)
	TFHDDefaultSize       = uint32(0x10)
	TFHDDefaultFlags      = uint32(0x20)
	TFHDDurationIsEmpty   = uint32(0x10000)
	TFHDDefaultBaseIsMOOF = uint32(0x20000)
)

// TrackFragHeader is a tfhd box. Optional fields are present on the wire
// only when the matching flag bit is set.
type TrackFragHeader struct {
	Version         uint8  `json:"version"`
	Flags           uint32 `json:"flags"`
	TrackID         uint32 `json:"track_id"`
	BaseDataOffset  uint64 `json:"base_data_offset,omitempty"`
	StsdID          uint32 `json:"sample_description_index,omitempty"`
	DefaultDuration uint32 `json:"default_sample_duration,omitempty"`
	DefaultSize     uint32 `json:"default_sample_size,omitempty"`
	DefaultFlags    uint32 `json:"default_sample_flags,omitempty"`
}

func (TrackFragHeader) Tag() Tag {
	return TFHD
}

func (tfhd TrackFragHeader) Marshal(w io.Writer) (uint64, error) {
	b := make([]byte, tfhd.payloadLen())
	tfhd.marshal(b)
	return writeBox(w, TFHD, b)
}

func (tfhd TrackFragHeader) marshal(b []byte) (n int) {
	PutFullBoxExt(b[n:], tfhd.Version, tfhd.Flags)
	n += FullBoxExtLen
	pio.PutU32BE(b[n:], tfhd.TrackID)
	n += 4
	if tfhd.Flags&TFHDBaseDataOffset != 0 {
		pio.PutU64BE(b[n:], tfhd.BaseDataOffset)
		n += 8
	}
	if tfhd.Flags&TFHDStsdID != 0 {
		pio.PutU32BE(b[n:], tfhd.StsdID)
		n += 4
	}
	if tfhd.Flags&TFHDDefaultDuration != 0 {
		pio.PutU32BE(b[n:], tfhd.DefaultDuration)
		n += 4
	}
	if tfhd.Flags&TFHDDefaultSize != 0 {
		pio.PutU32BE(b[n:], tfhd.DefaultSize)
		n += 4
	}
	if tfhd.Flags&TFHDDefaultFlags != 0 {
		pio.PutU32BE(b[n:], tfhd.DefaultFlags)
		n += 4
	}
	return
}

func (tfhd TrackFragHeader) payloadLen() (n uint64) {
	n += FullBoxExtLen
	n += 4
	if tfhd.Flags&TFHDBaseDataOffset != 0 {
		n += 8
	}
	if tfhd.Flags&TFHDStsdID != 0 {
		n += 4
	}
	if tfhd.Flags&TFHDDefaultDuration != 0 {
		n += 4
	}
	if tfhd.Flags&TFHDDefaultSize != 0 {
		n += 4
	}
	if tfhd.Flags&TFHDDefaultFlags != 0 {
		n += 4
	}
	return
}

func (tfhd TrackFragHeader) Len() uint64 {
	return HeaderSize + tfhd.payloadLen()
}

func (tfhd *TrackFragHeader) Unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return tfhd.unmarshal(b, h.PayloadOffset())
}

func (tfhd *TrackFragHeader) unmarshal(b []byte, offset int64) (err error) {
	n := 0
	if tfhd.Version, tfhd.Flags, err = getFullBoxExt(b, offset); err != nil {
		return
	}
	n += FullBoxExtLen

	u32 := func(field string, dst *uint32) error {
		if len(b) < n+4 {
			return parseErr(field, offset+int64(n), io.ErrUnexpectedEOF)
		}
		*dst = pio.U32BE(b[n:])
		n += 4
		return nil
	}

	if err = u32("TrackID", &tfhd.TrackID); err != nil {
		return
	}
	if tfhd.Flags&TFHDBaseDataOffset != 0 {
		if len(b) < n+8 {
			return parseErr("BaseDataOffset", offset+int64(n), io.ErrUnexpectedEOF)
		}
		tfhd.BaseDataOffset = pio.U64BE(b[n:])
		n += 8
	}
	if tfhd.Flags&TFHDStsdID != 0 {
		if err = u32("StsdID", &tfhd.StsdID); err != nil {
			return
		}
	}
	if tfhd.Flags&TFHDDefaultDuration != 0 {
		if err = u32("DefaultDuration", &tfhd.DefaultDuration); err != nil {
			return
		}
	}
	if tfhd.Flags&TFHDDefaultSize != 0 {
		if err = u32("DefaultSize", &tfhd.DefaultSize); err != nil {
			return
		}
	}
	if tfhd.Flags&TFHDDefaultFlags != 0 {
		if err = u32("DefaultFlags", &tfhd.DefaultFlags); err != nil {
			return
		}
	}
	return nil
}

func (TrackFragHeader) Children() []Box {
	return nil
}

func (tfhd TrackFragHeader) String() string {
	return fmt.Sprintf("track_id=%d flags=0x%06x", tfhd.TrackID, tfhd.Flags)
}
