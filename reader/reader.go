// Package reader demuxes a fragmented MP4 stream on a background goroutine
// and delivers its chunks over a channel.
package reader

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ugparu/isobmff"
	"github.com/ugparu/isobmff/format/fmp4"
	"github.com/ugparu/isobmff/utils/lifecycle"
	"github.com/ugparu/isobmff/utils/logger"
)

// Reader owns its stream and demuxer; it is the only goroutine touching
// them once Read is called.
type Reader struct {
	lifecycle.AsyncManager[*Reader]
	dmx       *fmp4.Demuxer
	chunks    chan *isobmff.MediaChunk
	err       error
	count     atomic.Uint64
	closing   atomic.Bool
	closeOnce sync.Once
	name      string
}

// New returns a reader over r with a chunk channel of chanSize.
func New(r io.Reader, chanSize int, opts ...fmp4.DemuxerOption) *Reader {
	rdr := &Reader{
		dmx:    fmp4.NewDemuxer(r, opts...),
		chunks: make(chan *isobmff.MediaChunk, chanSize),
		name:   "READER",
	}
	rdr.AsyncManager = lifecycle.NewAsyncManager(rdr)
	return rdr
}

func (rdr *Reader) String() string {
	return fmt.Sprintf("%s chunks=%d", rdr.name, rdr.count.Load())
}

// Read starts demuxing in the background.
func (rdr *Reader) Read() error {
	return rdr.Start(func(*Reader) error { return nil })
}

// Chunks is closed after the last chunk or on the first error.
func (rdr *Reader) Chunks() <-chan *isobmff.MediaChunk {
	return rdr.chunks
}

// Err waits for the reader to stop and returns the error that stopped it,
// or nil at end of stream or after Close.
func (rdr *Reader) Err() error {
	<-rdr.Done()
	return rdr.err
}

func (rdr *Reader) Step(stopCh <-chan struct{}) error {
	chunk, err := rdr.dmx.ReadChunk()
	if errors.Is(err, io.EOF) {
		logger.Debugf(rdr, "end of stream")
		return &lifecycle.BreakError{}
	}
	if err != nil {
		if rdr.closing.Load() {
			logger.Debugf(rdr, "stream closed: %v", err)
			return &lifecycle.BreakError{}
		}
		return err
	}
	rdr.count.Add(1)
	select {
	case rdr.chunks <- chunk:
		return nil
	case <-stopCh:
		return &lifecycle.BreakError{}
	}
}

func (rdr *Reader) Stopped(err error) {
	rdr.err = err
	rdr.closeOnce.Do(func() { close(rdr.chunks) })
}

// Close closes the stream first so that a read blocked on it returns, then
// stops the loop and waits for it.
func (rdr *Reader) Close() {
	if rdr.closing.CompareAndSwap(false, true) {
		rdr.dmx.Close()
	}
	rdr.AsyncManager.Close()
}

func (rdr *Reader) Release() {
	if rdr.closing.CompareAndSwap(false, true) {
		rdr.dmx.Close()
	}
}
