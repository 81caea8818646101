package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// writeDiff prints a line diff between the current and the planned content
// of path. Unchanged runs are collapsed to a count.
func writeDiff(w io.Writer, path, current, planned string) error {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, planned)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", path, path)
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			fmt.Fprintf(&sb, "@@ %d unchanged lines @@\n", strings.Count(d.Text, "\n"))
		case diffmatchpatch.DiffDelete:
			for _, line := range strings.Split(text, "\n") {
				sb.WriteString("-" + line + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range strings.Split(text, "\n") {
				sb.WriteString("+" + line + "\n")
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
