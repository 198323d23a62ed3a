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

// gitdiff is a tool that can be used with git using GIT_EXTERNAL_DIFF.
//
// XML and JSON files are sorted canonically and pretty printed before they are compared, which
// hides changes to attribute order, key order, and indentation:
//
//	GIT_EXTERNAL_DIFF=gitdiff git diff
//
// Other files and documents that don't parse are compared as is. Environment variables
// configure the comparison: DOCDIFF_CONTEXT sets the number of context lines and
// DOCDIFF_SEMANTIC=0 only pretty prints without sorting.
package main

import (
	"fmt"
	"os"
	"strconv"

	"znkr.io/docdiff"
	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/textdiff"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 8 {
		return fmt.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}

	path, oldFile, oldHex, newFile, newHex, newMode := args[1], args[2], args[3], args[5], args[6], args[7]

	old, err := readFile(oldFile)
	if err != nil {
		return fmt.Errorf("reading old file: %v", err)
	}
	new, err := readFile(newFile)
	if err != nil {
		return fmt.Errorf("reading new file: %v", err)
	}

	context := 3
	if v := os.Getenv("DOCDIFF_CONTEXT"); v != "" {
		context, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing DOCDIFF_CONTEXT: %v", err)
		}
	}
	opts := []docdiff.Option{docdiff.Pretty()}
	if os.Getenv("DOCDIFF_SEMANTIC") != "0" {
		opts = append(opts, docdiff.Semantic())
	}

	kind := doctree.KindFromPath(path)
	cmp := docdiff.Compare(docdiff.Side{Text: old, Kind: kind}, docdiff.Side{Text: new, Kind: kind}, opts...)
	for _, rep := range []docdiff.SideReport{cmp.Left, cmp.Right} {
		if rep.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, rep.Err)
		}
	}
	if cmp.Result.Equal() {
		return nil
	}

	diff := textdiff.Unified(cmp.Left.Text, cmp.Right.Text, textdiff.Context(context))

	fmt.Printf("diff --git a/%s b/%s\n", path, path)
	fmt.Printf("index %s..%s %s\n", short(oldHex), short(newHex), newMode)
	fmt.Printf("--- a/%s\n", path)
	fmt.Printf("+++ b/%s\n", path)
	os.Stdout.WriteString(diff)

	return nil
}

func readFile(name string) (string, error) {
	if name == "/dev/null" {
		return "", nil
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

func short(hex string) string {
	if len(hex) > 10 {
		return hex[:10]
	}
	return hex
}
