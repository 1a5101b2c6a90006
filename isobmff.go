// Package isobmff groups ISO BMFF boxes into streamable media chunks.
// Box level encoding and decoding lives in format/mp4/mp4io.
package isobmff

// ChunkDemuxer defines the interface for reading media chunks from a fragmented stream.
type ChunkDemuxer interface {
	ReadChunk() (*MediaChunk, error) // Reads the next chunk; io.EOF after the last one.
	Close()                          // Releases resources used by the demuxer.
}

// ChunkMuxer defines the interface for writing media chunks to a fragmented stream.
type ChunkMuxer interface {
	WriteChunk(*MediaChunk) error // Writes the chunk boxes back to back.
	Close()                       // Releases resources used by the muxer.
}
