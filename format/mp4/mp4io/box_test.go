package mp4io

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type shortLenBox struct {
	RawBox
}

func (b shortLenBox) Len() uint64 {
	return b.RawBox.Len() - 1
}

func TestNewBox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want Box
	}{
		{tag: "mdat", want: &MediaData{}},
		{tag: "tfdt", want: &TrackFragDecodeTime{}},
		{tag: "emsg", want: &EventMessage{}},
		{tag: "moof", want: &MovieFrag{}},
		{tag: "mfhd", want: &MovieFragHeader{}},
		{tag: "traf", want: &TrackFrag{}},
		{tag: "tfhd", want: &TrackFragHeader{}},
		{tag: "trun", want: &TrackFragRun{}},
		{tag: "ftyp", want: &FileType{}},
		{tag: "styp", want: &SegmentType{}},
		{tag: "free", want: &FreeSpace{Type: FREE}},
		{tag: "skip", want: &FreeSpace{Type: SKIP}},
		{tag: "uuid", want: &RawBox{Type: StringToTag("uuid")}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()
			box := NewBox(StringToTag(tt.tag))
			require.Equal(t, tt.want, box)
			require.Equal(t, tt.tag, box.Tag().String())
		})
	}
}

func TestReadBoxAs_UnexpectedBox(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 0x00, 0x00, 0x09, 'm', 'd', 'a', 't', 0x01}
	_, err := ReadBoxAs[MovieFrag](NewReaderAt(bytes.NewReader(data), 10))

	var unexpected *UnexpectedBoxError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, MOOF, unexpected.Want)
	require.Equal(t, MDAT, unexpected.Got)
	require.Equal(t, int64(10), unexpected.Offset)
}

func TestReadBox_Sequence(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	boxes := []Box{
		NewSegmentType(),
		&EventMessage{SchemeIDURI: "urn:x", Timescale: 1},
		testMovieFrag(),
		&MediaData{Data: []byte{1, 2, 3}},
		NewFreeSpace(4),
	}
	var total uint64
	for _, box := range boxes {
		n, err := WriteBox(&buf, box)
		require.NoError(t, err)
		total += n
	}
	require.Equal(t, int(total), buf.Len())

	r := NewReader(&buf)
	var tags []string
	for {
		box, err := ReadBox(r)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		tags = append(tags, box.Tag().String())
	}
	require.Equal(t, []string{"styp", "emsg", "moof", "mdat", "free"}, tags)
	require.Equal(t, int64(total), r.Tell())
}

func TestWriteBox_SizeMismatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := WriteBox(&buf, &shortLenBox{RawBox{Type: StringToTag("abcd"), Data: []byte{1}}})

	var mismatch *SizeMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint64(9), mismatch.Got)
	require.Equal(t, uint64(8), mismatch.Want)
}

func TestRawBox_RoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 0x00, 0x00, 0x0b, 's', 'i', 'd', 'x', 0x01, 0x02, 0x03}
	r := NewReader(bytes.NewReader(data))
	box, err := ReadBox(r)
	require.NoError(t, err)

	raw, ok := box.(*RawBox)
	require.True(t, ok)
	require.Equal(t, "sidx", raw.Tag().String())

	var buf bytes.Buffer
	_, err = WriteBox(&buf, raw)
	require.NoError(t, err)
	require.Equal(t, data, buf.Bytes())
}

func TestBrands(t *testing.T) {
	t.Parallel()

	t.Run("segment_type", func(t *testing.T) {
		t.Parallel()
		styp := NewSegmentType()
		require.True(t, styp.Has(StringToTag("msix")))
		require.False(t, styp.Has(StringToTag("isom")))

		var buf bytes.Buffer
		n, err := WriteBox(&buf, styp)
		require.NoError(t, err)
		require.Equal(t, uint64(24), n)

		back, err := ReadBoxAs[SegmentType](NewReader(&buf))
		require.NoError(t, err)
		require.Equal(t, styp, back)
	})

	t.Run("file_type", func(t *testing.T) {
		t.Parallel()
		ftyp := NewFileType()
		var buf bytes.Buffer
		_, err := WriteBox(&buf, ftyp)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}))

		back, err := ReadBoxAs[FileType](NewReader(&buf))
		require.NoError(t, err)
		require.Equal(t, ftyp, back)
		require.True(t, strings.HasPrefix(back.String(), "major=isom"))
	})

	t.Run("short", func(t *testing.T) {
		t.Parallel()
		data := []byte{0x00, 0x00, 0x00, 0x0c, 's', 't', 'y', 'p', 'm', 's', 'd', 'h'}
		_, err := ReadBox(NewReader(bytes.NewReader(data)))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})
}

func TestFreeSpace(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 0x00, 0x00, 0x0a, 's', 'k', 'i', 'p', 0x00, 0x00}
	box, err := ReadBoxAs[FreeSpace](NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	require.Equal(t, SKIP, box.Tag())
	require.Equal(t, "padding=2", box.String())
}
