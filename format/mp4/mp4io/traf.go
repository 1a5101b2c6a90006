package mp4io

import (
	"fmt"
	"io"
)

const TRAF = Tag(0x74726166)

func (TrackFrag) Tag() Tag {
	return TRAF
}

type TrackFrag struct {
	Header     *TrackFragHeader     `json:"tfhd,omitempty"`
	DecodeTime *TrackFragDecodeTime `json:"tfdt,omitempty"`
	Runs       []*TrackFragRun      `json:"trun,omitempty"`
	Unknowns   []Box                `json:"unknowns,omitempty"`
}

func (traf TrackFrag) Marshal(w io.Writer) (uint64, error) {
	return writeContainer(w, TRAF, traf.Children())
}

func (traf TrackFrag) Len() uint64 {
	return boxLen(childrenLen(traf.Children()))
}

func (traf *TrackFrag) Unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return readChildren(b, h.PayloadOffset(), func(child Box) error {
		switch atom := child.(type) {
		case *TrackFragHeader:
			traf.Header = atom
		case *TrackFragDecodeTime:
			traf.DecodeTime = atom
		case *TrackFragRun:
			traf.Runs = append(traf.Runs, atom)
		default:
			traf.Unknowns = append(traf.Unknowns, atom)
		}
		return nil
	})
}

func (traf TrackFrag) Children() (r []Box) {
	if traf.Header != nil {
		r = append(r, traf.Header)
	}
	if traf.DecodeTime != nil {
		r = append(r, traf.DecodeTime)
	}
	for _, atom := range traf.Runs {
		r = append(r, atom)
	}
	r = append(r, traf.Unknowns...)
	return
}

func (traf TrackFrag) String() string {
	var trackID uint32
	if traf.Header != nil {
		trackID = traf.Header.TrackID
	}
	return fmt.Sprintf("track_id=%d runs=%d", trackID, len(traf.Runs))
}
