package mp4io

import (
	"fmt"
	"io"
)

const MOOF = Tag(0x6d6f6f66)

func (MovieFrag) Tag() Tag {
	return MOOF
}

// MovieFrag is a moof box.
type MovieFrag struct {
	Header   *MovieFragHeader `json:"mfhd,omitempty"`
	Tracks   []*TrackFrag     `json:"traf,omitempty"`
	Unknowns []Box            `json:"unknowns,omitempty"`
	// StartOffset is the stream position of the box header when it was
	// read; trun data offsets are relative to it. It is not updated on write.
	StartOffset uint64 `json:"start_offset"`
}

func (moof MovieFrag) Marshal(w io.Writer) (uint64, error) {
	return writeContainer(w, MOOF, moof.Children())
}

func (moof MovieFrag) Len() uint64 {
	return boxLen(childrenLen(moof.Children()))
}

func (moof *MovieFrag) Unmarshal(r Reader, h BoxHeader) error {
	moof.StartOffset = uint64(h.Offset) //nolint:gosec // stream positions are non-negative
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return readChildren(b, h.PayloadOffset(), func(child Box) error {
		switch atom := child.(type) {
		case *MovieFragHeader:
			moof.Header = atom
		case *TrackFrag:
			moof.Tracks = append(moof.Tracks, atom)
		default:
			moof.Unknowns = append(moof.Unknowns, atom)
		}
		return nil
	})
}

func (moof MovieFrag) Children() (r []Box) {
	if moof.Header != nil {
		r = append(r, moof.Header)
	}
	for _, atom := range moof.Tracks {
		r = append(r, atom)
	}
	r = append(r, moof.Unknowns...)
	return
}

func (moof MovieFrag) String() string {
	var seq uint32
	if moof.Header != nil {
		seq = moof.Header.Seqnum
	}
	return fmt.Sprintf("start offset=%d seqnum=%d tracks=%d", moof.StartOffset, seq, len(moof.Tracks))
}

// Track returns the track fragment for trackID, or nil.
func (moof MovieFrag) Track(trackID uint32) *TrackFrag {
	for _, traf := range moof.Tracks {
		if traf.Header != nil && traf.Header.TrackID == trackID {
			return traf
		}
	}
	return nil
}

func (*MovieFrag) fragmentBox() {}
