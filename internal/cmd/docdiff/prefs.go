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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// prefsPath returns the default location of the preferences file.
func prefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "docdiff", "config.toml"), nil
}

// loadPrefs reads the preferences file into the settings of inv. Flags set on the command line
// keep their value. A missing preferences file is only an error if it was named with -prefs.
func loadPrefs(inv *invocation, logger *slog.Logger) error {
	path, explicit := inv.prefs, inv.prefs != ""
	if !explicit {
		var err error
		path, err = prefsPath()
		if err != nil {
			logger.Debug("no preferences", "err", err)
			return nil
		}
	}

	set := make(map[string]string)
	inv.flags.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})

	md, err := toml.DecodeFile(path, &inv.settings)
	switch {
	case !explicit && errors.Is(err, fs.ErrNotExist):
		logger.Debug("no preferences", "path", path)
		return nil
	case err != nil:
		return fmt.Errorf("reading preferences: %w", err)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unknown preference", "path", path, "key", key.String())
	}
	logger.Debug("loaded preferences", "path", path, "keys", len(md.Keys()))

	for name, value := range set {
		if err := inv.flags.Set(name, value); err != nil {
			return fmt.Errorf("restoring flag -%s: %w", name, err)
		}
	}
	return nil
}
