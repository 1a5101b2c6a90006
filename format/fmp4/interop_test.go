package fmp4

import (
	"bytes"
	"testing"

	mp4ff "github.com/Eyevinn/mp4ff/mp4"
	"github.com/stretchr/testify/require"
)

func TestInterop_FragmentFromMP4FF(t *testing.T) {
	t.Parallel()

	frag, err := mp4ff.CreateFragment(7, 1)
	require.NoError(t, err)

	samples := [][]byte{{0x10, 0x11, 0x12}, {0x20}, {0x30, 0x31}}
	for i, data := range samples {
		flags := mp4ff.NonSyncSampleFlags
		if i == 0 {
			flags = mp4ff.SyncSampleFlags
		}
		frag.AddFullSample(mp4ff.FullSample{
			Data:       data,
			DecodeTime: uint64(90000 + i*3000),
			Sample: mp4ff.Sample{
				Flags: flags,
				Dur:   3000,
				Size:  uint32(len(data)),
			},
		})
	}

	var buf bytes.Buffer
	require.NoError(t, frag.Encode(&buf))
	in := buf.Bytes()

	dmx := NewDemuxer(bytes.NewReader(in))
	chunk, err := dmx.ReadChunk()
	require.NoError(t, err)

	moof := chunk.Moof()
	require.NotNil(t, moof)
	require.Equal(t, uint32(7), moof.Header.Seqnum)

	traf := moof.Track(1)
	require.NotNil(t, traf)
	require.Equal(t, uint64(90000), traf.DecodeTime.Time)
	require.Len(t, traf.Runs, 1)

	run := traf.Runs[0]
	require.Len(t, run.Entries, 3)
	require.Equal(t, []byte{0x10, 0x11, 0x12, 0x20, 0x30, 0x31}, chunk.Mdat().Data)

	// the first sample starts data_offset bytes after the moof
	start := int(moof.StartOffset) + int(run.DataOffset)
	require.Equal(t, samples[0], in[start:start+len(samples[0])])

	var out bytes.Buffer
	_, err = chunk.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, in, out.Bytes())
}
