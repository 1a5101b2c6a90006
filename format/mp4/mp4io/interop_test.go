package mp4io

import (
	"bytes"
	"testing"

	gomp4 "github.com/abema/go-mp4"
	"github.com/stretchr/testify/require"
)

// The fragments written here are parsed back with github.com/abema/go-mp4
// and the other way round.

func TestInterop_FragmentReadByGoMP4(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	emsg := &EventMessage{Version: 1, SchemeIDURI: "urn:x", Value: "v", Timescale: 1000, PresentationTime: 5000, ID: 9, MessageData: []byte{7}}
	for _, box := range []Box{emsg, testMovieFrag(), &MediaData{Data: []byte{1, 2, 3, 4}}} {
		_, err := WriteBox(&buf, box)
		require.NoError(t, err)
	}

	var (
		paths    []string
		seqnum   uint32
		times    []uint64
		sizes    []uint32
		mdatData []byte
		emsgID   uint32
	)
	_, err := gomp4.ReadBoxStructure(bytes.NewReader(buf.Bytes()), func(h *gomp4.ReadHandle) (interface{}, error) {
		paths = append(paths, h.BoxInfo.Type.String())
		switch h.BoxInfo.Type.String() {
		case "moof", "traf":
			return h.Expand()

		case "mfhd":
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			seqnum = box.(*gomp4.Mfhd).SequenceNumber

		case "tfdt":
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			tfdt := box.(*gomp4.Tfdt)
			if tfdt.GetVersion() == 0 {
				times = append(times, uint64(tfdt.BaseMediaDecodeTimeV0))
			} else {
				times = append(times, tfdt.BaseMediaDecodeTimeV1)
			}

		case "trun":
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			for _, e := range box.(*gomp4.Trun).Entries {
				sizes = append(sizes, e.SampleSize)
			}

		case "mdat":
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			mdatData = box.(*gomp4.Mdat).Data

		case "emsg":
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			emsgID = box.(*gomp4.Emsg).Id
		}
		return nil, nil
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		"emsg", "moof", "mfhd",
		"traf", "tfhd", "tfdt", "trun",
		"traf", "tfhd", "tfdt", "trun",
		"mdat",
	}, paths)
	require.Equal(t, uint32(3), seqnum)
	require.Equal(t, []uint64{90000, 48000}, times)
	require.Equal(t, []uint32{1200, 300, 280, 10}, sizes)
	require.Equal(t, []byte{1, 2, 3, 4}, mdatData)
	require.Equal(t, uint32(9), emsgID)
}

func TestInterop_TfdtWrittenByGoMP4(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		box  *gomp4.Tfdt
		want uint64
	}{
		{
			name: "version_0",
			box:  &gomp4.Tfdt{BaseMediaDecodeTimeV0: 123456},
			want: 123456,
		},
		{
			name: "version_1",
			box:  &gomp4.Tfdt{FullBox: gomp4.FullBox{Version: 1}, BaseMediaDecodeTimeV1: 1 << 40},
			want: 1 << 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var payload bytes.Buffer
			_, err := gomp4.Marshal(&payload, tt.box, gomp4.Context{})
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = NewBoxHeader(TFDT, HeaderSize+uint64(payload.Len())).Marshal(&buf)
			require.NoError(t, err)
			buf.Write(payload.Bytes())

			tfdt, err := ReadBoxAs[TrackFragDecodeTime](NewReader(&buf))
			require.NoError(t, err)
			require.Equal(t, tt.box.GetVersion(), tfdt.Version)
			require.Equal(t, tt.want, tfdt.Time)
		})
	}
}
