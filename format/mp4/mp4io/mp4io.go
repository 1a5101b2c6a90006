// Package mp4io implements the ISO Base Media File Format box model used by
// MP4 and fragmented MP4: box headers, full-box version/flags, and the boxes
// that make up a streamable fragment (emsg, moof, mdat).
package mp4io

import (
	"io"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const (
	HeaderSize      = 8
	LargeHeaderSize = 16
	FullBoxExtLen   = 4
)

// Tag is a four-character box type.
type Tag uint32

func (t Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(t))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], tag)
	return Tag(pio.U32BE(b[:]))
}

// Box is implemented by every decoded box.
//
// Len is computed from the current field values and always equals the number
// of bytes Marshal writes. Unmarshal is called with the stream positioned just
// after the header described by h and consumes exactly the rest of the box.
type Box interface {
	Tag() Tag
	Len() uint64
	String() string
	Marshal(w io.Writer) (uint64, error)
	Unmarshal(r Reader, h BoxHeader) error
	Children() []Box
}

// BoxPtr constrains a type parameter to a pointer to a concrete box.
type BoxPtr[T any] interface {
	*T
	Box
}

// FragmentBox is a box that may appear at the top level of a media chunk.
// The set is closed: *EventMessage, *MovieFrag and *MediaData.
type FragmentBox interface {
	Box
	fragmentBox()
}

func FindChildrenByName(root Box, tag string) Box {
	return FindChildren(root, StringToTag(tag))
}

func FindChildren(root Box, tag Tag) Box {
	if root.Tag() == tag {
		return root
	}
	for _, child := range root.Children() {
		if r := FindChildren(child, tag); r != nil {
			return r
		}
	}
	return nil
}
