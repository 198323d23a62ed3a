// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// eval is a tool to evaluate comparisons on the history of a git repository.
//
// For every file changed by a commit, it creates unified patches with a few option variants and
// validates them by applying them with the unix patch tool. Every change is also aligned with
// docdiff.Compare and checked for consistency: the split view must have the same length on both
// sides and the unified view must contain every line of both versions. XML and JSON files are
// normalized, which exercises the parser, the formatter and the sorter on real documents.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"znkr.io/docdiff"
	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/internal/cmd/eval/internal/git"
	"znkr.io/docdiff/internal/unixpatch"
	"znkr.io/docdiff/textdiff"
)

type config struct {
	repo     string
	sample   int
	parallel int
	stats    string
	validate bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.repo, "repo", "", "repository to use for evaluation")
	flag.IntVar(&cfg.sample, "sample", 0, "if >0, sample commits to the value of the flag")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.BoolVar(&cfg.validate, "validate", true, "if patches should be validated with the patch tool")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type change struct {
	commitID string
	filename string
	old, new string
}

type result struct {
	commitID string
	file     string
	variant  string
	N, M     int
	D        int
	duration time.Duration
}

// variants are the option sets used to create patches.
var variants = map[string][]textdiff.Option{
	"default": nil,
	"optimal": {docdiff.Optimal()},
}

func run(cfg *config) error {
	start := time.Now()

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
	}

	repo, err := git.Open(cfg.repo)
	if err != nil {
		return fmt.Errorf("opening git repository: %v", err)
	}
	defer repo.Close()

	commitIDs, err := repo.RevList()
	if err != nil {
		return fmt.Errorf("reading rev-list: %v", err)
	}
	if cfg.sample > 0 && cfg.sample < len(commitIDs) {
		rand.Shuffle(len(commitIDs), func(i, j int) {
			commitIDs[i], commitIDs[j] = commitIDs[j], commitIDs[i]
		})
		commitIDs = commitIDs[:cfg.sample]
	}

	var failures, processed atomic.Int64
	var mu sync.Mutex // guards stdout
	report := func(prefix, format string, args ...any) {
		failures.Add(1)
		mu.Lock()
		defer mu.Unlock()
		fmt.Printf("%s: %s\n", prefix, fmt.Sprintf(format, args...))
	}

	// Read changes.
	changes := make(chan change)
	go func() {
		defer close(changes)
		for _, commitID := range commitIDs {
			files, err := repo.DiffTree(commitID)
			if err != nil {
				report(commitID, "error processing commit: %v", err)
				continue
			}
			for _, file := range files {
				old, err := repo.Read(file.OldID)
				if err != nil {
					report(commitID, "%v", err)
					continue
				}
				new, err := repo.Read(file.NewID)
				if err != nil {
					report(commitID, "%v", err)
					continue
				}
				changes <- change{commitID: commitID, filename: file.Name, old: old, new: new}
			}
		}
	}()

	// Evaluate changes.
	var results chan result
	if stats != nil {
		results = make(chan result)
	}
	var wg sync.WaitGroup
	for range cfg.parallel {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ch := range changes {
				evaluate(ch, cfg.validate, results, report)
				processed.Add(1)
			}
		}()
	}

	var statsWG sync.WaitGroup
	if results != nil {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := bufio.NewWriter(stats)
			w.WriteString("commit_id,file,variant,N,M,D,duration_ns\n")
			for r := range results {
				fmt.Fprintf(w, "%s,%s,%s,%d,%d,%d,%d\n", r.commitID, r.file, r.variant, r.N, r.M, r.D, r.duration.Nanoseconds())
			}
			if err := w.Flush(); err != nil {
				report("stats", "failed to flush stats: %v", err)
			}
		}()
	}

	wg.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait()

	fmt.Printf("evaluated %d changes from %d commits in %v, %d failures\n",
		processed.Load(), len(commitIDs), time.Since(start).Round(time.Millisecond), failures.Load())
	if failures.Load() > 0 {
		return fmt.Errorf("%d failures", failures.Load())
	}
	return nil
}

func evaluate(ch change, validate bool, results chan<- result, report func(prefix, format string, args ...any)) {
	prefix := ch.commitID + ":" + ch.filename
	N, M := lines(ch.old), lines(ch.new)

	for variant, opts := range variants {
		start := time.Now()
		unified := textdiff.Unified(ch.old, ch.new, opts...)
		duration := time.Since(start)

		if results != nil {
			d := 0
			for line := range strings.Lines(unified) {
				if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "+") {
					d++
				}
			}
			results <- result{ch.commitID, ch.filename, variant, N, M, d, duration}
		}

		if validate {
			patched, err := unixpatch.Apply(ch.old, unified)
			if err != nil {
				report(prefix, "failed to run patch: %v", err)
				continue
			}
			if patched != ch.new {
				report(prefix, "file is different after applying %s patch", variant)
			}
		}
	}

	kind := doctree.KindFromPath(ch.filename)
	var opts []docdiff.Option
	if kind != doctree.PlainText {
		opts = append(opts, docdiff.Semantic())
	}
	c := docdiff.Compare(docdiff.Side{Text: ch.old, Kind: kind}, docdiff.Side{Text: ch.new, Kind: kind}, opts...)
	r := c.Result
	if len(r.SplitLeft) != len(r.SplitRight) {
		report(prefix, "split view has %d left and %d right rows", len(r.SplitLeft), len(r.SplitRight))
	}
	st := r.Stats()
	if kind == doctree.PlainText || (c.Left.SortErr == nil && c.Right.SortErr == nil) {
		if want := lines(c.Left.Text); st.Unchanged+st.Removed != want {
			report(prefix, "unified view has %d old lines, want %d", st.Unchanged+st.Removed, want)
		}
		if want := lines(c.Right.Text); st.Unchanged+st.Added != want {
			report(prefix, "unified view has %d new lines, want %d", st.Unchanged+st.Added, want)
		}
	}
}

// lines counts lines the way the aligner does: a final line break doesn't start another line.
func lines(s string) int {
	n := strings.Count(s, "\n")
	if len(s) > 0 && s[len(s)-1] != '\n' {
		n++
	}
	return n
}
