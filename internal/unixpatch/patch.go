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

// Package unixpatch applies unified patches with the unix patch tool to check that patches
// produced by this module are accepted by it.
//
// This package is only for testing.
package unixpatch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotInstalled is returned if the patch tool can't be found.
var ErrNotInstalled = errors.New("patch tool not installed")

// Apply applies patch to orig and returns the patched text.
func Apply(orig, patch string) (string, error) {
	// Using patch with an empty diff will not create an output file.
	if len(patch) == 0 {
		return orig, nil
	}
	tool, err := exec.LookPath("patch")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}

	dir, err := os.MkdirTemp("", "patch-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	files := map[string]string{"patch": patch, "orig": orig}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s file: %v", name, err)
		}
	}

	outfile := filepath.Join(dir, "out")
	cmd := exec.Command(tool, "-u", "-i", filepath.Join(dir, "patch"), "-o", outfile, filepath.Join(dir, "orig"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to run patch command: %s: %v\n%s", strings.Join(cmd.Args, " "), err, out)
	}

	out, err := os.ReadFile(outfile)
	if err != nil {
		return "", fmt.Errorf("failed to read outfile: %v", err)
	}
	return string(out), nil
}
