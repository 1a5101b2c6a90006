package fmp4

// DemuxerOption configures a Demuxer.
type DemuxerOption func(dmx *Demuxer)

// WithMaxBoxSize rejects any top level box whose header announces more than
// n bytes, before its payload is read. Zero disables the check.
func WithMaxBoxSize(n uint64) DemuxerOption {
	return func(dmx *Demuxer) {
		dmx.maxBoxSize = n
	}
}

// WithBaseOffset sets the absolute stream position of the first byte read,
// for readers that start in the middle of a stream.
func WithBaseOffset(off int64) DemuxerOption {
	return func(dmx *Demuxer) {
		dmx.baseOffset = &off
	}
}
