// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves credentials for the OpenAlex polite pool.
//
// Values come from two places, environment first: the OPENALEX_EMAIL
// variable, then a directory of plain-text key files where the filename is
// the key name and the trimmed contents are the value. The only key file
// refmatch reads today is openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyOpenAlexEmail is the key file holding the mailto address sent to
// OpenAlex for polite-pool access.
const KeyOpenAlexEmail = "openalex-email"

// envOpenAlexEmail overrides the key file when set.
const envOpenAlexEmail = "OPENALEX_EMAIL"

// Store holds secrets loaded from a directory of key files.
type Store struct {
	values map[string]string
}

// Load reads all files in dir into a Store. A missing directory is not an
// error and yields an empty Store. Unreadable files produce a warning on
// stderr but do not abort; empty and dot-prefixed files are ignored.
func Load(dir string) (*Store, error) {
	s := &Store{values: make(map[string]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			s.values[name] = value
		}
	}

	return s, nil
}

// Get returns the value for key, or "" when the key was not loaded.
func (s *Store) Get(key string) string {
	if s == nil {
		return ""
	}
	return s.values[key]
}

// Keys returns the loaded key names in sorted order.
func (s *Store) Keys() []string {
	if s == nil || len(s.values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OpenAlexEmail resolves the polite-pool address: the OPENALEX_EMAIL
// environment variable wins over the openalex-email key file.
func (s *Store) OpenAlexEmail() string {
	if v := strings.TrimSpace(os.Getenv(envOpenAlexEmail)); v != "" {
		return v
	}
	return s.Get(KeyOpenAlexEmail)
}
