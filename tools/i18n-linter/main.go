// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the VaultPass message catalogs against the source tree.
// It fails when a key passed to i18n.T is missing from the primary locale, or
// when a secondary locale lacks a key of the primary one. Keys defined but
// never referenced are reported as warnings.
//
// Run it from the repository root:
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "active.en.yaml"
)

var (
	// i18n.T("some.key")
	callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	// Quoted keys held in variables or slices, e.g. "tui.modal.field_title".
	literalRe = regexp.MustCompile(`"([a-z]+\.[a-z_]+(?:\.[a-z_]+)*)"`)
)

// usage records which keys the source tree references.
type usage struct {
	// called are keys passed to i18n.T directly, with one location each.
	called map[string]string
	// mentioned are all key-shaped string literals.
	mentioned map[string]struct{}
}

type report struct {
	undefined map[string]string   // key -> location
	missing   map[string][]string // locale file -> keys
	orphaned  []string
}

func (r report) failed() bool {
	return len(r.undefined) > 0 || len(r.missing) > 0
}

func main() {
	r, err := lint(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	r.print(os.Stdout)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root string) (report, error) {
	u, err := scanSource(root)
	if err != nil {
		return report{}, fmt.Errorf("scan source: %w", err)
	}
	dir := filepath.Join(root, localesDir)
	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("load %s: %w", primaryLocale, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return report{}, err
	}

	r := report{undefined: map[string]string{}, missing: map[string][]string{}}
	for key, loc := range u.called {
		if _, ok := primary[key]; !ok {
			r.undefined[key] = loc
		}
	}
	for key := range primary {
		if _, ok := u.mentioned[key]; !ok {
			r.orphaned = append(r.orphaned, key)
		}
	}
	sort.Strings(r.orphaned)

	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return report{}, fmt.Errorf("load %s: %w", filepath.Base(file), err)
		}
		var missing []string
		for key := range primary {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			r.missing[filepath.Base(file)] = missing
		}
	}
	return r, nil
}

func (r report) print(w io.Writer) {
	fmt.Fprintln(w, "--- Keys used in code but not defined in", primaryLocale, "---")
	if len(r.undefined) == 0 {
		fmt.Fprintln(w, "  none")
	}
	keys := make([]string, 0, len(r.undefined))
	for k := range r.undefined {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  - %s (%s)\n", k, r.undefined[k])
	}

	fmt.Fprintln(w, "--- Keys missing from secondary locales ---")
	if len(r.missing) == 0 {
		fmt.Fprintln(w, "  none")
	}
	files := make([]string, 0, len(r.missing))
	for f := range r.missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		fmt.Fprintf(w, "  %s:\n", f)
		for _, k := range r.missing[f] {
			fmt.Fprintf(w, "  - %s\n", k)
		}
	}

	fmt.Fprintln(w, "--- Orphaned keys (warning) ---")
	if len(r.orphaned) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, k := range r.orphaned {
		fmt.Fprintf(w, "  - %s\n", k)
	}
}

// scanSource collects key references from every non-test Go file below
// root, skipping tools/ and _-prefixed directories.
func scanSource(root string) (usage, error) {
	u := usage{called: map[string]string{}, mentioned: map[string]struct{}{}}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range callRe.FindAllStringSubmatch(line, -1) {
				if _, seen := u.called[m[1]]; !seen {
					u.called[m[1]] = fmt.Sprintf("%s:%d", path, i+1)
				}
				u.mentioned[m[1]] = struct{}{}
			}
			for _, m := range literalRe.FindAllStringSubmatch(line, -1) {
				u.mentioned[m[1]] = struct{}{}
			}
		}
		return nil
	})
	return u, err
}

// loadKeysFromLocale reads a YAML catalog and returns its message ids.
// Both flat dotted keys and nested maps are accepted.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		next := k
		if prefix != "" {
			next = prefix + "." + k
		}
		flattenYAML(next, v, keys)
	}
}
