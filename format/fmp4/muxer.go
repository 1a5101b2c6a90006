package fmp4

import (
	"fmt"
	"io"
	"math"

	"github.com/ugparu/isobmff"
	"github.com/ugparu/isobmff/format/mp4/mp4io"
	"github.com/ugparu/isobmff/utils/logger"
)

var _ isobmff.ChunkMuxer = (*Muxer)(nil)

// Muxer writes chunks to w. It can also assemble chunks itself from samples
// queued per track with WriteSample. Not safe for concurrent use.
type Muxer struct {
	w       io.Writer
	written uint64
	strs    []*Stream
	events  []*mp4io.EventMessage
	seqnum  uint32
}

func NewMuxer(w io.Writer) *Muxer {
	return &Muxer{w: w}
}

func (m *Muxer) String() string {
	return fmt.Sprintf("FMP4_MUXER written=%d", m.written)
}

// WriteBox writes a single top level box, such as the styp of a segment.
func (m *Muxer) WriteBox(box mp4io.Box) error {
	n, err := mp4io.WriteBox(m.w, box)
	m.written += n
	if err != nil {
		return fmt.Errorf("fmp4: write %s: %w", box.Tag(), err)
	}
	return nil
}

// WriteChunk writes the chunk boxes back to back.
func (m *Muxer) WriteChunk(chunk *isobmff.MediaChunk) error {
	n, err := chunk.WriteTo(m.w)
	m.written += uint64(n) //nolint:gosec // n >= 0
	if err != nil {
		return fmt.Errorf("fmp4: %w", err)
	}
	logger.Tracef(m, "wrote %s", chunk)
	return nil
}

// Written is the number of bytes written so far.
func (m *Muxer) Written() uint64 {
	return m.written
}

// AddTrack registers a track; samples are timed in timeScale units.
func (m *Muxer) AddTrack(trackID uint32, timeScale uint32) error {
	if trackID == 0 || timeScale == 0 {
		return fmt.Errorf("fmp4: track id and time scale must be positive, got %d/%d", trackID, timeScale)
	}
	if m.stream(trackID) != nil {
		return fmt.Errorf("fmp4: track %d already registered", trackID)
	}
	m.strs = append(m.strs, &Stream{trackID: trackID, timeScale: int64(timeScale)})
	return nil
}

func (m *Muxer) stream(trackID uint32) *Stream {
	for _, s := range m.strs {
		if s.trackID == trackID {
			return s
		}
	}
	return nil
}

// WriteSample queues smp for the next fragment of trackID.
func (m *Muxer) WriteSample(trackID uint32, smp Sample) error {
	s := m.stream(trackID)
	if s == nil {
		return &UnknownTrackError{TrackID: trackID}
	}
	s.writeSample(smp)
	return nil
}

// AddEvent queues an event message to lead the next fragment.
func (m *Muxer) AddEvent(emsg *mp4io.EventMessage) {
	m.events = append(m.events, emsg)
}

// Fragment assembles the queued events and samples into a chunk of
// emsg* moof mdat and clears the queues. Track data is laid out in the mdat
// in registration order; trun data offsets are relative to the moof.
func (m *Muxer) Fragment() (*isobmff.MediaChunk, error) {
	chunk := isobmff.NewMediaChunk()
	for _, emsg := range m.events {
		chunk.Append(emsg)
	}

	moof := &mp4io.MovieFrag{Header: &mp4io.MovieFragHeader{Seqnum: m.seqnum + 1}}
	var active []*Stream
	var dataLen uint64
	for _, s := range m.strs {
		if len(s.samples) == 0 {
			continue
		}
		traf, err := s.trackFrag()
		if err != nil {
			return nil, err
		}
		moof.Tracks = append(moof.Tracks, traf)
		active = append(active, s)
		dataLen += uint64(s.bufSize) //nolint:gosec // bufSize >= 0
	}

	if len(active) == 0 {
		if len(m.events) == 0 {
			return nil, ErrEmptyFragment
		}
		m.events = nil
		return chunk, nil
	}

	offset := moof.Len() + mp4io.HeaderLenFor(dataLen)
	data := make([]byte, 0, dataLen)
	for i, s := range active {
		if offset > math.MaxInt32 {
			return nil, fmt.Errorf("fmp4: track %d: data offset %d overflows trun", s.trackID, offset)
		}
		moof.Tracks[i].Runs[0].DataOffset = int32(offset)
		for _, smp := range s.samples {
			data = append(data, smp.Data...)
		}
		offset += uint64(s.bufSize) //nolint:gosec // bufSize >= 0
	}
	chunk.Append(moof, &mp4io.MediaData{Data: data})

	m.seqnum++
	m.events = nil
	for _, s := range active {
		s.reset()
	}
	logger.Debugf(m, "fragment %d: %s", m.seqnum, chunk)
	return chunk, nil
}

// Flush assembles a fragment and writes it.
func (m *Muxer) Flush() error {
	chunk, err := m.Fragment()
	if err != nil {
		return err
	}
	return m.WriteChunk(chunk)
}

// Close closes the underlying writer when it is an io.Closer.
func (m *Muxer) Close() {
	if c, ok := m.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warningf(m, "close: %v", err)
		}
	}
}
