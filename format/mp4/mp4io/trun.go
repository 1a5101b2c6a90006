package mp4io

import (
	"fmt"
	"io"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const (
	TRUN                 = Tag(0x7472756e)
	TRUNDataOffset       = 0x01
	TRUNFirstSampleFlags = 0x04
	TRUNSampleDuration   = 0x100
	TRUNSampleSize       = 0x200
	TRUNSampleFlags      = 0x400
	TRUNSampleCTS        = 0x800
)

// MaxRunEntries bounds the sample count of a run whose entries carry no
// per-sample fields, since the payload length cannot bound it.
const MaxRunEntries = 1 << 16

// Sample flag bits as stored in tfhd default flags and trun entries.
const (
	SampleIsNonSync       uint32 = 0x00010000
	SampleHasDependencies uint32 = 0x01000000
	SampleNoDependencies  uint32 = 0x02000000

	SampleNonKeyframe = SampleHasDependencies | SampleIsNonSync
)

// TrackFragRun is a trun box. Which per-sample fields are stored is
// selected by Flags; fields not selected are written as nothing and read
// back as zero.
type TrackFragRun struct {
	Version          uint8               `json:"version"`
	Flags            uint32              `json:"flags"`
	DataOffset       int32               `json:"data_offset,omitempty"`
	FirstSampleFlags uint32              `json:"first_sample_flags,omitempty"`
	Entries          []TrackFragRunEntry `json:"entries"`
}

// TrackFragRunEntry is one sample of a run. Cts holds the raw composition
// offset; in version 1 runs it is a signed value.
type TrackFragRunEntry struct {
	Duration uint32 `json:"duration,omitempty"`
	Size     uint32 `json:"size,omitempty"`
	Flags    uint32 `json:"flags,omitempty"`
	Cts      uint32 `json:"cts,omitempty"`
}

func (TrackFragRun) Tag() Tag {
	return TRUN
}

func (tfr TrackFragRun) entryLen() (n int) {
	if tfr.Flags&TRUNSampleDuration != 0 {
		n += 4
	}
	if tfr.Flags&TRUNSampleSize != 0 {
		n += 4
	}
	if tfr.Flags&TRUNSampleFlags != 0 {
		n += 4
	}
	if tfr.Flags&TRUNSampleCTS != 0 {
		n += 4
	}
	return
}

func (tfr TrackFragRun) payloadLen() (n uint64) {
	n += FullBoxExtLen
	n += 4
	if tfr.Flags&TRUNDataOffset != 0 {
		n += 4
	}
	if tfr.Flags&TRUNFirstSampleFlags != 0 {
		n += 4
	}
	n += uint64(tfr.entryLen() * len(tfr.Entries)) //nolint:gosec // non-negative
	return
}

func (tfr TrackFragRun) Len() uint64 {
	return boxLen(tfr.payloadLen())
}

func (tfr TrackFragRun) Marshal(w io.Writer) (uint64, error) {
	b := make([]byte, tfr.payloadLen())
	tfr.marshal(b)
	return writeBox(w, TRUN, b)
}

func (tfr TrackFragRun) marshal(b []byte) (n int) {
	PutFullBoxExt(b[n:], tfr.Version, tfr.Flags)
	n += FullBoxExtLen
	pio.PutU32BE(b[n:], uint32(len(tfr.Entries))) //nolint:gosec // entry counts fit the wire field
	n += 4
	if tfr.Flags&TRUNDataOffset != 0 {
		pio.PutI32BE(b[n:], tfr.DataOffset)
		n += 4
	}
	if tfr.Flags&TRUNFirstSampleFlags != 0 {
		pio.PutU32BE(b[n:], tfr.FirstSampleFlags)
		n += 4
	}
	for _, entry := range tfr.Entries {
		if tfr.Flags&TRUNSampleDuration != 0 {
			pio.PutU32BE(b[n:], entry.Duration)
			n += 4
		}
		if tfr.Flags&TRUNSampleSize != 0 {
			pio.PutU32BE(b[n:], entry.Size)
			n += 4
		}
		if tfr.Flags&TRUNSampleFlags != 0 {
			pio.PutU32BE(b[n:], entry.Flags)
			n += 4
		}
		if tfr.Flags&TRUNSampleCTS != 0 {
			pio.PutU32BE(b[n:], entry.Cts)
			n += 4
		}
	}
	return
}

func (tfr *TrackFragRun) Unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return tfr.unmarshal(b, h.PayloadOffset())
}

func (tfr *TrackFragRun) unmarshal(b []byte, offset int64) (err error) {
	n := 0
	if tfr.Version, tfr.Flags, err = getFullBoxExt(b, offset); err != nil {
		return
	}
	n += FullBoxExtLen
	if len(b) < n+4 {
		return parseErr("SampleCount", offset+int64(n), io.ErrUnexpectedEOF)
	}
	count := int(pio.U32BE(b[n:]))
	n += 4
	if tfr.Flags&TRUNDataOffset != 0 {
		if len(b) < n+4 {
			return parseErr("DataOffset", offset+int64(n), io.ErrUnexpectedEOF)
		}
		tfr.DataOffset = pio.I32BE(b[n:])
		n += 4
	}
	if tfr.Flags&TRUNFirstSampleFlags != 0 {
		if len(b) < n+4 {
			return parseErr("FirstSampleFlags", offset+int64(n), io.ErrUnexpectedEOF)
		}
		tfr.FirstSampleFlags = pio.U32BE(b[n:])
		n += 4
	}

	// the count comes from the wire; check it against what is left before allocating
	if el := tfr.entryLen(); el > 0 && count > (len(b)-n)/el {
		return parseErr("Entries", offset+int64(n), io.ErrUnexpectedEOF)
	} else if el == 0 && count > MaxRunEntries {
		return parseErr("SampleCount", offset+FullBoxExtLen, ErrTooManyEntries)
	}
	tfr.Entries = nil
	if count > 0 {
		tfr.Entries = make([]TrackFragRunEntry, count)
	}
	for i := range tfr.Entries {
		entry := &tfr.Entries[i]
		if tfr.Flags&TRUNSampleDuration != 0 {
			entry.Duration = pio.U32BE(b[n:])
			n += 4
		}
		if tfr.Flags&TRUNSampleSize != 0 {
			entry.Size = pio.U32BE(b[n:])
			n += 4
		}
		if tfr.Flags&TRUNSampleFlags != 0 {
			entry.Flags = pio.U32BE(b[n:])
			n += 4
		}
		if tfr.Flags&TRUNSampleCTS != 0 {
			entry.Cts = pio.U32BE(b[n:])
			n += 4
		}
	}
	return nil
}

func (TrackFragRun) Children() []Box {
	return nil
}

func (tfr TrackFragRun) String() string {
	return fmt.Sprintf("entries=%d data_offset=%d", len(tfr.Entries), tfr.DataOffset)
}

// SampleFlags returns the effective flags of sample i, applying the first
// sample override and falling back to def when the run carries none.
func (tfr TrackFragRun) SampleFlags(i int, def uint32) uint32 {
	if i == 0 && tfr.Flags&TRUNFirstSampleFlags != 0 {
		return tfr.FirstSampleFlags
	}
	if tfr.Flags&TRUNSampleFlags != 0 {
		return tfr.Entries[i].Flags
	}
	return def
}
