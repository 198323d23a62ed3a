package benchmarks

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/docdiff"
	"znkr.io/docdiff/textdiff"
)

type Impl struct {
	Name string
	Diff func(x, y string) string
}

var Impls = []Impl{
	{
		Name: "docdiff",
		Diff: func(x, y string) string {
			return textdiff.Unified(x, y)
		},
	},
	{
		Name: "docdiff-optimal",
		Diff: func(x, y string) string {
			return textdiff.Unified(x, y, docdiff.Optimal())
		},
	},
	{
		Name: "docdiff-align",
		Diff: func(x, y string) string {
			// Renders the unified view of an alignment. There are no hunks, but the edits are
			// the same as for the patch.
			var sb strings.Builder
			for _, l := range docdiff.Align(x, y).Unified {
				switch l.Kind {
				case docdiff.Unchanged:
					sb.WriteString(" ")
				case docdiff.Removed:
					sb.WriteString("-")
				case docdiff.Added:
					sb.WriteString("+")
				}
				sb.WriteString(l.Text)
				sb.WriteString("\n")
			}
			return sb.String()
		},
	},
	{
		Name: "go-internal",
		Diff: func(x, y string) string {
			return string(gointernal.Diff("x", []byte(x), "y", []byte(y)))
		},
	},
	{
		Name: "diffmatchpatch",
		Diff: func(x, y string) string {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			dmp := diffmatchpatch.New()
			rx, ry, lines := dmp.DiffLinesToRunes(x, y)
			diffs := dmp.DiffMainRunes(rx, ry, false)
			diffs = dmp.DiffCharsToLines(diffs, lines)

			var sb strings.Builder
			for _, diff := range diffs {
				var prefix string
				switch diff.Type {
				case diffmatchpatch.DiffInsert:
					prefix = "+"
				case diffmatchpatch.DiffDelete:
					prefix = "-"
				case diffmatchpatch.DiffEqual:
					prefix = " "
				}
				for line := range strings.Lines(diff.Text) {
					sb.WriteString(prefix)
					sb.WriteString(line)
				}
			}
			return sb.String()
		},
	},
	{
		Name: "godebug",
		Diff: func(x, y string) string {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			return godebug.Diff(x, y)
		},
	},
	{
		Name: "mb0",
		Diff: func(x, y string) string {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			d := mb0lines{
				x: strings.SplitAfter(x, "\n"),
				y: strings.SplitAfter(y, "\n"),
			}
			changes := mb0.Diff(len(d.x), len(d.y), d)
			var sb strings.Builder
			a := 0
			for _, ch := range changes {
				for a < ch.A {
					sb.WriteString(" ")
					sb.WriteString(d.x[a])
					a++
				}
				for i := range ch.Del {
					sb.WriteString("-")
					sb.WriteString(d.x[ch.A+i])
					a++
				}
				for i := range ch.Ins {
					sb.WriteString("+")
					sb.WriteString(d.y[ch.B+i])
				}
			}
			for a < len(d.x) {
				sb.WriteString(" ")
				sb.WriteString(d.x[a])
				a++
			}
			return sb.String()
		},
	},
	{
		Name: "udiff",
		Diff: func(x, y string) string {
			return udiff.Unified("x", "y", x, y)
		},
	},
}

type mb0lines struct {
	x []string
	y []string
}

func (d mb0lines) Equal(i, j int) bool { return d.x[i] == d.y[j] }
