package mp4io

import (
	"fmt"
	"io"
)

// RawBox keeps a box this package does not decode as opaque payload bytes,
// so it survives a read/write round trip unchanged.
type RawBox struct {
	Type Tag    `json:"type"`
	Data []byte `json:"data,omitempty"`
}

func (raw RawBox) Tag() Tag {
	return raw.Type
}

func (raw RawBox) Len() uint64 {
	return boxLen(uint64(len(raw.Data)))
}

func (raw RawBox) Marshal(w io.Writer) (uint64, error) {
	return writeBox(w, raw.Type, raw.Data)
}

func (raw *RawBox) Unmarshal(r Reader, h BoxHeader) (err error) {
	raw.Type = h.Type
	raw.Data, err = readPayload(r, h)
	return
}

func (RawBox) Children() []Box {
	return nil
}

func (raw RawBox) String() string {
	return fmt.Sprintf("data len=%d", len(raw.Data))
}
