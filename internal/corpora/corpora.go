// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package corpora runs golden-file tests: each test case is a file under a
// testdata directory, and its expected outputs live next to it.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus is a table-driven test whose table is a directory.
type Corpus struct {
	// The root of the test data directory, relative to the file that calls
	// [Corpus.Run].
	Root string

	// An environment variable holding a glob. Test cases whose path matches
	// it have their output files rewritten instead of checked.
	Refresh string

	// The file extension, without a dot, of files defining a test case.
	Extension string

	// The outputs of each test case. The expected value of an output is read
	// from the test case's file name with the output's extension appended;
	// a missing file means an empty output.
	Outputs []Output

	// Test runs one test case and returns one string per element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one output of a test case.
type Output struct {
	// Suffix of the file holding the expected output; for a test case
	// "foo.yaml" and extension "regions", the file is "foo.yaml.regions".
	Extension string

	// Compares outputs. Nil means byte-for-byte equality.
	Compare Compare
}

// Compare compares an output against its expected value. Returns the empty
// string on a match, and a description of the mismatch otherwise.
type Compare func(got, want string) string

// Run runs every test case in the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()

	dir := callerDir(0)
	root := filepath.Join(dir, c.Root)

	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("corpora: walking %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no *.%s files under %q", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// Refreshing is never a passing run.
		t.Logf("corpora: refreshing outputs matching %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range cases {
		name, _ := filepath.Rel(dir, path)
		t.Run(name, func(t *testing.T) {
			text, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: reading %q: %v", path, err)
			}

			results := c.Test(t, name, string(text))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: got %d outputs, want %d", len(results), len(c.Outputs))
			}

			matched := refresh != "" && doublestar.MatchUnvalidated(refresh, filepath.ToSlash(name))
			for i, out := range c.Outputs {
				file := fmt.Sprint(path, ".", out.Extension)
				if matched {
					write(t, file, results[i])
					continue
				}

				want, err := os.ReadFile(file)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: reading %q: %v", file, err)
					continue
				}
				compare := out.Compare
				if compare == nil {
					compare = Diff
				}
				if msg := compare(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", file, msg)
				}
			}
		})
	}
}

func write(t *testing.T, file, content string) {
	t.Helper()
	if content == "" {
		if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Errorf("corpora: deleting %q: %v", file, err)
		}
		return
	}
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Errorf("corpora: writing %q: %v", file, err)
	}
}

var (
	added   = color.New(color.FgHiGreen, color.Bold)
	removed = color.New(color.FgHiRed, color.Bold)
)

// Diff is the default [Compare]: a colorized unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = added.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removed.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the test file's directory")
	}
	return filepath.Dir(file)
}
