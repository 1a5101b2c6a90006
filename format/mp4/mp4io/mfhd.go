package mp4io

import (
	"fmt"
	"io"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const MFHD = Tag(0x6d666864)

func (MovieFragHeader) Tag() Tag {
	return MFHD
}

type MovieFragHeader struct {
	Version uint8  `json:"version"`
	Flags   uint32 `json:"flags"`
	Seqnum  uint32 `json:"sequence_number"`
}

func (mfhd MovieFragHeader) Marshal(w io.Writer) (uint64, error) {
	var b [FullBoxExtLen + 4]byte
	mfhd.marshal(b[:])
	return writeBox(w, MFHD, b[:])
}

func (mfhd MovieFragHeader) marshal(b []byte) (n int) {
	PutFullBoxExt(b[n:], mfhd.Version, mfhd.Flags)
	n += FullBoxExtLen
	pio.PutU32BE(b[n:], mfhd.Seqnum)
	n += 4
	return
}

func (MovieFragHeader) Len() uint64 {
	return HeaderSize + FullBoxExtLen + 4
}

func (mfhd *MovieFragHeader) Unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return mfhd.unmarshal(b, h.PayloadOffset())
}

func (mfhd *MovieFragHeader) unmarshal(b []byte, offset int64) (err error) {
	n := 0
	if mfhd.Version, mfhd.Flags, err = getFullBoxExt(b, offset); err != nil {
		return
	}
	n += FullBoxExtLen
	if len(b) < n+4 {
		return parseErr("Seqnum", offset+int64(n), io.ErrUnexpectedEOF)
	}
	mfhd.Seqnum = pio.U32BE(b[n:])
	return nil
}

func (MovieFragHeader) Children() []Box {
	return nil
}

func (mfhd MovieFragHeader) String() string {
	return fmt.Sprintf("seqnum=%d", mfhd.Seqnum)
}
