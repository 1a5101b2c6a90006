package fmp4

import (
	"fmt"
	"math"
	"time"

	"github.com/ugparu/isobmff/format/mp4/mp4io"
)

// Sample is one access unit queued for the next fragment.
type Sample struct {
	Time     time.Duration
	Duration time.Duration
	KeyFrame bool
	Data     []byte
}

func (s Sample) flags() uint32 {
	if s.KeyFrame {
		return mp4io.SampleNoDependencies
	}
	return mp4io.SampleNonKeyframe
}

// Stream buffers the samples of one track between fragments.
type Stream struct {
	trackID   uint32
	timeScale int64
	samples   []Sample
	bufSize   int
}

func (s *Stream) String() string {
	return fmt.Sprintf("FMP4_STREAM track=%d samples=%d", s.trackID, len(s.samples))
}

// timeToTS splits tm at whole seconds so the product with the time scale
// does not overflow for long running streams.
func (s *Stream) timeToTS(tm time.Duration) int64 {
	sec, frac := int64(tm/time.Second), int64(tm%time.Second)
	return sec*s.timeScale + frac*s.timeScale/int64(time.Second)
}

func (s *Stream) writeSample(smp Sample) {
	s.samples = append(s.samples, smp)
	s.bufSize += len(smp.Data)
}

func (s *Stream) reset() {
	s.samples = s.samples[:0]
	s.bufSize = 0
}

func toUint32(v int64, name string) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("fmp4: %s %d is outside uint32 range", name, v)
	}
	return uint32(v), nil
}

// trackFrag builds the traf for the buffered samples. Per-sample fields are
// only stored when a sample differs from the defaults taken from the first
// two samples.
func (s *Stream) trackFrag() (*mp4io.TrackFrag, error) {
	first := s.samples[0]
	decodeTime := s.timeToTS(first.Time)
	if decodeTime < 0 {
		return nil, fmt.Errorf("fmp4: track %d: negative decode time %d", s.trackID, decodeTime)
	}

	defaultDuration, err := toUint32(s.timeToTS(first.Duration), "sample duration")
	if err != nil {
		return nil, err
	}
	defaultSize, err := toUint32(int64(len(first.Data)), "sample size")
	if err != nil {
		return nil, err
	}
	defaultFlags := first.flags()
	if len(s.samples) > 1 {
		defaultFlags = s.samples[1].flags()
	}

	run := &mp4io.TrackFragRun{Flags: mp4io.TRUNDataOffset}
	if first.flags() != defaultFlags {
		run.Flags |= mp4io.TRUNFirstSampleFlags
		run.FirstSampleFlags = first.flags()
	}

	run.Entries = make([]mp4io.TrackFragRunEntry, 0, len(s.samples))
	for i, smp := range s.samples {
		entry := mp4io.TrackFragRunEntry{Flags: smp.flags()}
		if entry.Duration, err = toUint32(s.timeToTS(smp.Duration), "sample duration"); err != nil {
			return nil, err
		}
		if entry.Size, err = toUint32(int64(len(smp.Data)), "sample size"); err != nil {
			return nil, err
		}
		if entry.Duration != defaultDuration {
			run.Flags |= mp4io.TRUNSampleDuration
		}
		if entry.Size != defaultSize {
			run.Flags |= mp4io.TRUNSampleSize
		}
		if i != 0 && entry.Flags != defaultFlags {
			run.Flags |= mp4io.TRUNSampleFlags
		}
		run.Entries = append(run.Entries, entry)
	}
	if run.Flags&mp4io.TRUNSampleFlags != 0 {
		run.Flags &^= mp4io.TRUNFirstSampleFlags
		run.FirstSampleFlags = 0
	}

	return &mp4io.TrackFrag{
		Header: &mp4io.TrackFragHeader{
			Flags: mp4io.TFHDDefaultBaseIsMOOF | mp4io.TFHDDefaultDuration |
				mp4io.TFHDDefaultSize | mp4io.TFHDDefaultFlags,
			TrackID:         s.trackID,
			DefaultDuration: defaultDuration,
			DefaultSize:     defaultSize,
			DefaultFlags:    defaultFlags,
		},
		DecodeTime: mp4io.NewTrackFragDecodeTime(uint64(decodeTime)),
		Runs:       []*mp4io.TrackFragRun{run},
	}, nil
}
