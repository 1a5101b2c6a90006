package mp4io

import (
	"fmt"
	"io"
)

const MDAT = Tag(0x6d646174)

// MediaData is an mdat box. The payload is held fully in memory.
type MediaData struct {
	Data []byte `json:"data"`
	// StartOffset is the stream position of the box header when it was read.
	// It is not updated on write.
	StartOffset uint64 `json:"start_offset"`
}

func (MediaData) Tag() Tag {
	return MDAT
}

func (m MediaData) Len() uint64 {
	return boxLen(uint64(len(m.Data)))
}

func (m MediaData) Marshal(w io.Writer) (uint64, error) {
	return writeBox(w, MDAT, m.Data)
}

func (m *MediaData) Unmarshal(r Reader, h BoxHeader) (err error) {
	m.StartOffset = uint64(h.Offset) //nolint:gosec // stream positions are non-negative
	m.Data, err = readPayload(r, h)
	return
}

func (MediaData) Children() []Box {
	return nil
}

func (m MediaData) String() string {
	return fmt.Sprintf("start offset=%d, data len=%d", m.StartOffset, len(m.Data))
}

func (*MediaData) fragmentBox() {}
