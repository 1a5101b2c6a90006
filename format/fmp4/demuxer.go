// Package fmp4 splits a fragmented MP4 byte stream into media chunks and
// writes chunks back out.
package fmp4

import (
	"errors"
	"fmt"
	"io"

	"github.com/ugparu/isobmff"
	"github.com/ugparu/isobmff/format/mp4/mp4io"
	"github.com/ugparu/isobmff/utils/logger"
)

var _ isobmff.ChunkDemuxer = (*Demuxer)(nil)

// Demuxer reads top level boxes and groups them into chunks of
// emsg* moof mdat+. Other top level boxes are skipped, except ftyp and styp
// whose brands are kept. Not safe for concurrent use.
type Demuxer struct {
	r          mp4io.Reader
	src        io.Reader
	maxBoxSize uint64
	baseOffset *int64
	next       mp4io.FragmentBox
	brands     *mp4io.Brands
	chunks     uint64
	skipped    uint64
}

func NewDemuxer(r io.Reader, opts ...DemuxerOption) *Demuxer {
	dmx := &Demuxer{src: r}
	for _, opt := range opts {
		opt(dmx)
	}
	if dmx.baseOffset != nil {
		dmx.r = mp4io.NewReaderAt(r, *dmx.baseOffset)
	} else {
		dmx.r = mp4io.NewReader(r)
	}
	return dmx
}

func (dmx *Demuxer) String() string {
	return fmt.Sprintf("FMP4_DEMUXER pos=%d", dmx.r.Tell())
}

// ReadChunk returns the next chunk. A chunk ends before an emsg or moof that
// follows its mdat, or before a second moof. io.EOF is returned once the
// stream is exhausted and every box has been handed out.
func (dmx *Demuxer) ReadChunk() (*isobmff.MediaChunk, error) {
	chunk := isobmff.NewMediaChunk()
	var sawMoof, sawMdat bool

	for {
		box := dmx.next
		dmx.next = nil
		if box == nil {
			var err error
			if box, err = dmx.readFragmentBox(); err != nil {
				if errors.Is(err, io.EOF) && chunk.Len() > 0 {
					return dmx.emit(chunk), nil
				}
				return nil, err
			}
		}

		switch box.(type) {
		case *mp4io.EventMessage:
			if sawMdat {
				dmx.next = box
				return dmx.emit(chunk), nil
			}
		case *mp4io.MovieFrag:
			if sawMoof || sawMdat {
				dmx.next = box
				return dmx.emit(chunk), nil
			}
			sawMoof = true
		case *mp4io.MediaData:
			sawMdat = true
		}
		chunk.Append(box)
	}
}

func (dmx *Demuxer) emit(chunk *isobmff.MediaChunk) *isobmff.MediaChunk {
	dmx.chunks++
	logger.Tracef(dmx, "chunk %d: %s", dmx.chunks, chunk)
	return chunk
}

func (dmx *Demuxer) readFragmentBox() (mp4io.FragmentBox, error) {
	for {
		h, err := mp4io.ReadBoxHeader(dmx.r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("fmp4: header at %d: %w", h.Offset, err)
		}
		if dmx.maxBoxSize > 0 && h.Size > dmx.maxBoxSize {
			return nil, &BoxTooLargeError{Tag: h.Type, Offset: h.Offset, Size: h.Size, Max: dmx.maxBoxSize}
		}

		switch h.Type {
		case mp4io.MDAT, mp4io.MOOF, mp4io.EMSG:
			box, err := mp4io.DecodeBox(dmx.r, h)
			if err != nil {
				return nil, fmt.Errorf("fmp4: %s at %d: %w", h.Type, h.Offset, err)
			}
			return box.(mp4io.FragmentBox), nil
		case mp4io.STYP, mp4io.FTYP:
			box, err := mp4io.DecodeBox(dmx.r, h)
			if err != nil {
				return nil, fmt.Errorf("fmp4: %s at %d: %w", h.Type, h.Offset, err)
			}
			switch typ := box.(type) {
			case *mp4io.SegmentType:
				dmx.brands = &typ.Brands
			case *mp4io.FileType:
				dmx.brands = &typ.Brands
			}
			logger.Debugf(dmx, "%s: %s", h, box)
		default:
			logger.Debugf(dmx, "skipping %s", h)
			if err = mp4io.SkipBox(dmx.r, h); err != nil {
				return nil, fmt.Errorf("fmp4: %s at %d: %w", h.Type, h.Offset, err)
			}
			dmx.skipped++
		}
	}
}

// SegmentType returns the brands of the last ftyp or styp seen, or nil.
func (dmx *Demuxer) SegmentType() *mp4io.Brands {
	return dmx.brands
}

// Skipped is the number of top level boxes dropped so far.
func (dmx *Demuxer) Skipped() uint64 {
	return dmx.skipped
}

// Close closes the underlying reader when it is an io.Closer.
func (dmx *Demuxer) Close() {
	if c, ok := dmx.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warningf(dmx, "close: %v", err)
		}
	}
}
