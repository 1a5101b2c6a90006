package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type named struct{}

func (named) String() string {
	return "named-object"
}

type plain struct{}

func TestObjToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		obj  any
		want string
	}{
		{name: "nil", obj: nil, want: "NIL"},
		{name: "stringer", obj: named{}, want: "named-object"},
		{name: "string", obj: "demuxer", want: "demuxer"},
		{name: "struct", obj: plain{}, want: "plain"},
		{name: "pointer", obj: &plain{}, want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, objToString(tt.obj))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	out := format(logPair{obj: strings.Repeat("x", 30), msg: "hello"})
	require.True(t, strings.HasPrefix(out, "|"+strings.Repeat("x", 20)+"|hello"))

	out = format(logPair{obj: "mdat", msg: "m"})
	require.True(t, strings.HasPrefix(out, "|"+strings.Repeat(" ", 16)+"mdat|m"))
}
