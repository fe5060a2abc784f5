// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

// Package envdir loads environment variables from a directory in the
// container_environment format of s6: one file per variable, named like
// the variable, containing the value.
package envdir

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// Vars is a map of environment variable values by name. An empty value
// marks the variable for removal, see [Vars.Environ].
type Vars map[string]string

var nameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load reads all environment variables from the given directory. Each
// regular file whose name is a valid variable name defines one variable,
// with the first line of the file as value. Files with a .env suffix are
// parsed as dotenv files instead and may define multiple variables each;
// on name collision the plain files win. Directories and files with
// names that are no valid variable name are ignored.
func Load(dir string) (Vars, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read environment directory: %w", err)
	}

	vars := make(Vars)

	// Dotenv files first, so plain files take precedence.
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".env") {
			continue
		}

		fileVars, err := godotenv.Read(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		maps.Copy(vars, fileVars)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".env") ||
			!nameRegex.MatchString(name) {
			continue
		}

		value, err := readValue(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		vars[name] = value
	}

	return vars, nil
}

// readValue returns the first line of the file without the line ending.
func readValue(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	value, _, _ := strings.Cut(string(content), "\n")

	return strings.TrimRight(value, "\r"), nil
}

// Environ merges the variables over the given base environment and
// returns the result sorted by name. Variables from the store win over
// entries of base with the same name. A variable with an empty value
// removes the variable instead, like an empty file does for envdir.
func (v Vars) Environ(base []string) []string {
	merged := make(map[string]string, len(base)+len(v))

	for _, kv := range base {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		merged[name] = value
	}

	for name, value := range v {
		if value == "" {
			delete(merged, name)
			continue
		}

		merged[name] = value
	}

	env := make([]string, 0, len(merged))
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		env = append(env, name+"="+merged[name])
	}

	return env
}
