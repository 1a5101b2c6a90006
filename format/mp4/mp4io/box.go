package mp4io

import (
	"bytes"
	"errors"
	"io"
)

// NewBox returns an empty box for tag. Unknown tags get a RawBox.
func NewBox(tag Tag) Box {
	switch tag {
	case MDAT:
		return &MediaData{}
	case TFDT:
		return &TrackFragDecodeTime{}
	case EMSG:
		return &EventMessage{}
	case MOOF:
		return &MovieFrag{}
	case MFHD:
		return &MovieFragHeader{}
	case TRAF:
		return &TrackFrag{}
	case TFHD:
		return &TrackFragHeader{}
	case TRUN:
		return &TrackFragRun{}
	case FTYP:
		return &FileType{}
	case STYP:
		return &SegmentType{}
	case FREE, SKIP:
		return &FreeSpace{Type: tag}
	default:
		return &RawBox{Type: tag}
	}
}

// DecodeBox decodes the box whose header was just read from r.
func DecodeBox(r Reader, h BoxHeader) (Box, error) {
	box := NewBox(h.Type)
	if err := box.Unmarshal(r, h); err != nil {
		return nil, err
	}
	return box, nil
}

// ReadBox reads one complete box from r.
func ReadBox(r Reader) (Box, error) {
	h, err := ReadBoxHeader(r)
	if err != nil {
		return nil, err
	}
	return DecodeBox(r, h)
}

// ReadBoxAs reads one complete box from r and requires it to be a T.
// Boxes whose zero value has no tag (RawBox, FreeSpace) accept any header.
func ReadBoxAs[T any, PT BoxPtr[T]](r Reader) (PT, error) {
	h, err := ReadBoxHeader(r)
	if err != nil {
		return nil, err
	}
	box := PT(new(T))
	if want := box.Tag(); want != 0 && want != h.Type {
		return nil, &UnexpectedBoxError{Want: want, Got: h.Type, Offset: h.Offset}
	}
	if err = box.Unmarshal(r, h); err != nil {
		return nil, err
	}
	return box, nil
}

// WriteBox writes b and checks that the byte count matches b.Len().
func WriteBox(w io.Writer, b Box) (uint64, error) {
	n, err := b.Marshal(w)
	if err != nil {
		return n, err
	}
	if want := b.Len(); n != want {
		return n, &SizeMismatchError{Tag: b.Tag(), Want: want, Got: n}
	}
	return n, nil
}

// readChildren decodes the boxes packed back to back in payload, which
// starts at absolute stream offset base.
func readChildren(payload []byte, base int64, fn func(Box) error) error {
	r := NewReaderAt(bytes.NewReader(payload), base)
	for {
		h, err := ReadBoxHeader(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		box, err := DecodeBox(r, h)
		if err != nil {
			return parseErr(h.Type.String(), h.Offset, err)
		}
		if err = fn(box); err != nil {
			return err
		}
	}
}

func childrenLen(children []Box) (n uint64) {
	for _, child := range children {
		n += child.Len()
	}
	return
}

// writeContainer writes a header for tag followed by each child.
func writeContainer(w io.Writer, tag Tag, children []Box) (n uint64, err error) {
	if n, err = NewBoxHeader(tag, boxLen(childrenLen(children))).Marshal(w); err != nil {
		return
	}
	for _, child := range children {
		var m uint64
		m, err = child.Marshal(w)
		n += m
		if err != nil {
			return
		}
	}
	return
}
