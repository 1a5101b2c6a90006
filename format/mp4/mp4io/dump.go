package mp4io

import (
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

type dumpEnvelope struct {
	Type Tag    `json:"type"`
	Size uint64 `json:"size"`
	Box  Box    `json:"box"`
}

// Dump renders b and its fields as JSON.
func Dump(b Box) (string, error) {
	out, err := json.Marshal(dumpEnvelope{Type: b.Tag(), Size: b.Len(), Box: b})
	if err != nil {
		return "", fmt.Errorf("mp4io: dump %s: %w", b.Tag(), err)
	}
	return string(out), nil
}

// Summary is a one line description of b for logs.
func Summary(b Box) string {
	return fmt.Sprintf("%s size=%d %s", b.Tag(), b.Len(), b.String())
}

func printatom(out io.Writer, root Box, depth int) {
	fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", depth*2), Summary(root))
	for _, child := range root.Children() {
		printatom(out, child, depth+1)
	}
}

// FprintBox writes the summary of root and of its descendants, one per line,
// indented by depth.
func FprintBox(out io.Writer, root Box) {
	printatom(out, root, 0)
}

func PrintBox(root Box) {
	FprintBox(os.Stdout, root)
}
