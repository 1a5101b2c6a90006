package mp4io

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	t.Parallel()

	out, err := Dump(&TrackFragDecodeTime{Version: 1, Time: 1_000_000})
	require.NoError(t, err)

	var doc struct {
		Type string `json:"type"`
		Size uint64 `json:"size"`
		Box  struct {
			Version uint8  `json:"version"`
			Time    uint64 `json:"base_media_decode_time"`
		} `json:"box"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "tfdt", doc.Type)
	require.Equal(t, uint64(20), doc.Size)
	require.Equal(t, uint8(1), doc.Box.Version)
	require.Equal(t, uint64(1_000_000), doc.Box.Time)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	require.Equal(t, "mdat size=13 start offset=0, data len=5", Summary(&MediaData{Data: make([]byte, 5)}))
}

func TestFprintBox(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintBox(&buf, testMovieFrag())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.True(t, strings.HasPrefix(lines[0], "moof "))
	require.True(t, strings.HasPrefix(lines[1], "  mfhd "))
	require.True(t, strings.HasPrefix(lines[2], "  traf "))
	require.True(t, strings.HasPrefix(lines[3], "    tfhd "))
	require.Len(t, lines, 10)
}
