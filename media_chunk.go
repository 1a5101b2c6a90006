package isobmff

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/ugparu/isobmff/format/mp4/mp4io"
)

// MediaChunk is the ordered list of top level boxes of one fragment:
// typically event messages, then a moof, then an mdat. Order is kept as
// appended; cardinality is not checked.
type MediaChunk struct {
	Boxes []mp4io.FragmentBox
}

func NewMediaChunk() *MediaChunk {
	return &MediaChunk{Boxes: []mp4io.FragmentBox{}}
}

// Append adds boxes to the end of the chunk.
func (c *MediaChunk) Append(boxes ...mp4io.FragmentBox) {
	c.Boxes = append(c.Boxes, boxes...)
}

func (c *MediaChunk) Len() int {
	return len(c.Boxes)
}

// All iterates the boxes in order.
func (c *MediaChunk) All() iter.Seq2[int, mp4io.FragmentBox] {
	return slices.All(c.Boxes)
}

// Emsgs returns the event messages in order.
func (c *MediaChunk) Emsgs() (r []*mp4io.EventMessage) {
	for _, box := range c.Boxes {
		if emsg, ok := box.(*mp4io.EventMessage); ok {
			r = append(r, emsg)
		}
	}
	return
}

// Moof returns the first movie fragment, or nil.
func (c *MediaChunk) Moof() *mp4io.MovieFrag {
	for _, box := range c.Boxes {
		if moof, ok := box.(*mp4io.MovieFrag); ok {
			return moof
		}
	}
	return nil
}

// Mdat returns the first media data box, or nil.
func (c *MediaChunk) Mdat() *mp4io.MediaData {
	for _, box := range c.Boxes {
		if mdat, ok := box.(*mp4io.MediaData); ok {
			return mdat
		}
	}
	return nil
}

// Size is the number of bytes WriteTo produces.
func (c *MediaChunk) Size() (n uint64) {
	for _, box := range c.Boxes {
		n += box.Len()
	}
	return
}

// WriteTo writes the boxes back to back with no framing of their own.
func (c *MediaChunk) WriteTo(w io.Writer) (n int64, err error) {
	for _, box := range c.Boxes {
		var m uint64
		m, err = mp4io.WriteBox(w, box)
		n += int64(m) //nolint:gosec // box sizes fit int64
		if err != nil {
			return n, fmt.Errorf("isobmff: write %s: %w", box.Tag(), err)
		}
	}
	return n, nil
}

func (c *MediaChunk) String() string {
	tags := make([]string, len(c.Boxes))
	for i, box := range c.Boxes {
		tags[i] = box.Tag().String()
	}
	return fmt.Sprintf("MEDIA_CHUNK [%s] size=%d", strings.Join(tags, " "), c.Size())
}
