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

// Package git reads the history of a repository with the git command line tool.
package git

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// nullID is the blob id git reports for the missing side of an added or removed file.
const nullID = "0000000000000000000000000000000000000000"

// Repo is a git repository. Blobs are read through a single long running git cat-file process.
type Repo struct {
	dir string

	mu  sync.Mutex
	cmd *exec.Cmd
	in  io.WriteCloser
	out *bufio.Reader
}

// Open starts reading the repository in dir.
func Open(dir string) (*Repo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	cmd := exec.Command("git", "-C", dir, "cat-file", "--batch")
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting stdin: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting git cat-file: %w", err)
	}
	return &Repo{dir: dir, cmd: cmd, in: in, out: bufio.NewReader(out)}, nil
}

// Close stops the cat-file process.
func (r *Repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.in.Close()
	return r.cmd.Wait()
}

// RevList returns the ids of all non-merge commits reachable from HEAD, newest first.
func (r *Repo) RevList() ([]string, error) {
	out, err := git("-C", r.dir, "rev-list", "--no-merges", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

// FileDiff is a file changed by a commit.
type FileDiff struct {
	Name  string
	OldID string
	NewID string
}

// DiffTree returns the files changed by commit compared to its first parent.
func (r *Repo) DiffTree(commit string) ([]FileDiff, error) {
	out, err := git("-C", r.dir, "diff-tree", "-r", "--no-commit-id", commit)
	if err != nil {
		return nil, err
	}
	var files []FileDiff
	for line := range strings.Lines(out) {
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			continue
		}
		meta, name, ok := strings.Cut(line, "\t")
		if !ok || !strings.HasPrefix(meta, ":") {
			return nil, fmt.Errorf("unexpected diff-tree line %q", line)
		}
		fields := strings.Fields(meta[1:])
		if len(fields) != 5 {
			return nil, fmt.Errorf("unexpected diff-tree line %q", line)
		}
		files = append(files, FileDiff{Name: name, OldID: fields[2], NewID: fields[3]})
	}
	return files, nil
}

// Read returns the content of a blob. The null id reads as an empty blob.
func (r *Repo) Read(id string) (string, error) {
	if id == nullID {
		return "", nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintf(r.in, "%s\n", id); err != nil {
		return "", fmt.Errorf("requesting blob %s: %w", id, err)
	}
	header, err := r.out.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading blob %s: %w", id, err)
	}
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != id {
		return "", fmt.Errorf("unexpected cat-file header %q for blob %s", header, id)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", fmt.Errorf("parsing size of blob %s: %w", id, err)
	}
	buf := make([]byte, n+1) // content is followed by a line break
	if _, err := io.ReadFull(r.out, buf); err != nil {
		return "", fmt.Errorf("reading blob %s: %w", id, err)
	}
	return string(buf[:n]), nil
}

func git(args ...string) (string, error) {
	var wout, werr strings.Builder
	cmd := exec.Command("git", args...)
	cmd.Stdout = &wout
	cmd.Stderr = &werr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running git command %v: %v\n%s", cmd, err, werr.String())
	}
	return wout.String(), nil
}
