package benchmarks

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
	"znkr.io/docdiff"
	"znkr.io/docdiff/doctree"
)

type testdata struct {
	name string
	x, y string
}

// loadTestdata reuses the golden inputs of the textdiff package.
func loadTestdata(t testing.TB) []testdata {
	t.Helper()
	testFiles, err := filepath.Glob("../../textdiff/testdata/*.test")
	if err != nil {
		t.Fatalf("Failed to read testdata: %v", err)
	}
	var tests []testdata
	for _, filename := range testFiles {
		ar, err := txtar.ParseFile(filename)
		if err != nil {
			t.Fatalf("failed to parse test case: %v", err)
		}
		test := testdata{name: filepath.Base(filename)}
		for _, f := range ar.Files {
			switch f.Name {
			case "x":
				test.x = string(f.Data)
			case "y":
				test.y = string(f.Data)
			}
		}
		tests = append(tests, test)
	}
	return tests
}

// countEdits counts the changed lines of unified output.
func countEdits(out string) int {
	edits := 0
	for line := range strings.Lines(out) {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			edits++
		}
	}
	return edits
}

func BenchmarkDiffs(b *testing.B) {
	tests := loadTestdata(b)
	optD := make(map[string]int)
	for _, td := range tests {
		st := docdiff.Align(td.x, td.y, docdiff.Optimal()).Stats()
		optD[td.name] = st.Added + st.Removed
	}

	for _, impl := range Impls {
		b.Run("impl="+impl.Name, func(b *testing.B) {
			for _, td := range tests {
				b.Run("name="+td.name, func(b *testing.B) {
					for b.Loop() {
						_ = impl.Diff(td.x, td.y)
					}
					b.StopTimer()

					edits := countEdits(impl.Diff(td.x, td.y))
					b.ReportMetric(float64(edits), "edits")
					b.ReportMetric(float64(edits-optD[td.name]), "excess-edits")
				})
			}
		})
	}
}

type record struct {
	id    int
	name  string
	price string
	tags  []string
}

// catalog generates n records. The second return value is a revision of the first with the
// records and their fields in a different order and every tenth record changed.
func catalog(n int, seed uint64) (old, revised []record) {
	r := rand.New(rand.NewPCG(seed, seed))
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	for i := range n {
		rec := record{
			id:    i,
			name:  words[r.IntN(len(words))] + " " + words[r.IntN(len(words))],
			price: fmt.Sprintf("%d.%02d", r.IntN(100), r.IntN(100)),
		}
		for range r.IntN(4) {
			rec.tags = append(rec.tags, words[r.IntN(len(words))])
		}
		old = append(old, rec)
	}

	revised = make([]record, n)
	for i, rec := range old {
		if i%10 == 0 {
			rec.price = fmt.Sprintf("%d.%02d", r.IntN(100), r.IntN(100))
		}
		revised[i] = rec
	}
	r.Shuffle(len(revised), func(i, j int) { revised[i], revised[j] = revised[j], revised[i] })
	return old, revised
}

func jsonCatalog(recs []record, shuffled bool) string {
	var sb strings.Builder
	sb.WriteString(`{"items": [`)
	for i, rec := range recs {
		if i > 0 {
			sb.WriteString(",")
		}
		fields := []string{
			fmt.Sprintf(`"id": %d`, rec.id),
			fmt.Sprintf(`"name": %s`, doctree.Quote(rec.name)),
			fmt.Sprintf(`"price": %s`, rec.price),
		}
		var tags []string
		for _, t := range rec.tags {
			tags = append(tags, doctree.Quote(t))
		}
		fields = append(fields, `"tags": [`+strings.Join(tags, ", ")+`]`)
		if shuffled {
			fields[0], fields[len(fields)-1] = fields[len(fields)-1], fields[0]
		}
		sb.WriteString("\n  {" + strings.Join(fields, ", ") + "}")
	}
	sb.WriteString("\n]}\n")
	return sb.String()
}

func xmlCatalog(recs []record, shuffled bool) string {
	var sb strings.Builder
	sb.WriteString("<catalog>")
	for _, rec := range recs {
		attrs := []string{
			fmt.Sprintf(`id="%d"`, rec.id),
			fmt.Sprintf(`price="%s"`, rec.price),
		}
		if shuffled {
			attrs[0], attrs[1] = attrs[1], attrs[0]
		}
		fmt.Fprintf(&sb, "\n<item %s><name>%s</name>", strings.Join(attrs, " "), doctree.EscapeText(rec.name))
		for _, t := range rec.tags {
			fmt.Fprintf(&sb, "<tag>%s</tag>", t)
		}
		sb.WriteString("</item>")
	}
	sb.WriteString("\n</catalog>\n")
	return sb.String()
}

// hunks counts the groups of consecutive changed lines.
func hunks(res docdiff.Result) int {
	n := 0
	inHunk := false
	for _, l := range res.Unified {
		changed := l.Kind != docdiff.Unchanged
		if changed && !inHunk {
			n++
		}
		inHunk = changed
	}
	return n
}

func BenchmarkCompare(b *testing.B) {
	old, revised := catalog(500, 1)
	docs := []struct {
		name        string
		left, right docdiff.Side
	}{
		{
			name:  "json",
			left:  docdiff.Side{Text: jsonCatalog(old, false), Kind: doctree.JSON},
			right: docdiff.Side{Text: jsonCatalog(revised, true), Kind: doctree.JSON},
		},
		{
			name:  "xml",
			left:  docdiff.Side{Text: xmlCatalog(old, false), Kind: doctree.XML},
			right: docdiff.Side{Text: xmlCatalog(revised, true), Kind: doctree.XML},
		},
	}
	variants := []struct {
		name string
		opts []docdiff.Option
	}{
		{"plain", nil},
		{"pretty", []docdiff.Option{docdiff.Pretty()}},
		{"semantic", []docdiff.Option{docdiff.Semantic()}},
		{"semantic-align-blocks", []docdiff.Option{docdiff.Semantic(), docdiff.AlignBlocks()}},
	}

	for _, doc := range docs {
		b.Run("doc="+doc.name, func(b *testing.B) {
			for _, v := range variants {
				b.Run("variant="+v.name, func(b *testing.B) {
					for b.Loop() {
						_ = docdiff.Compare(doc.left, doc.right, v.opts...)
					}
					b.StopTimer()

					c := docdiff.Compare(doc.left, doc.right, v.opts...)
					if c.Left.Err != nil || c.Right.Err != nil {
						b.Fatalf("Compare(...) reported invalid input: %v, %v", c.Left.Err, c.Right.Err)
					}
					st := c.Result.Stats()
					b.ReportMetric(float64(st.Added+st.Removed), "edits")
					b.ReportMetric(float64(hunks(c.Result)), "hunks")
				})
			}
		})
	}
}
