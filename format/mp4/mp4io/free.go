package mp4io

import (
	"fmt"
	"io"
)

const (
	FREE = Tag(0x66726565)
	SKIP = Tag(0x736b6970)
)

// FreeSpace is a free or skip box; its content is padding.
type FreeSpace struct {
	Type Tag    `json:"type"`
	Data []byte `json:"data,omitempty"`
}

func NewFreeSpace(n int) *FreeSpace {
	return &FreeSpace{Type: FREE, Data: make([]byte, n)}
}

func (f FreeSpace) Tag() Tag {
	return f.Type
}

func (f FreeSpace) Len() uint64 {
	return boxLen(uint64(len(f.Data)))
}

func (f FreeSpace) Marshal(w io.Writer) (uint64, error) {
	return writeBox(w, f.Type, f.Data)
}

func (f *FreeSpace) Unmarshal(r Reader, h BoxHeader) (err error) {
	f.Type = h.Type
	f.Data, err = readPayload(r, h)
	return
}

func (FreeSpace) Children() []Box {
	return nil
}

func (f FreeSpace) String() string {
	return fmt.Sprintf("padding=%d", len(f.Data))
}
