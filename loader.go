package metermeter

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ReadLexicon decodes a JSON object mapping words to lists of U/S patterns.
// Entries with the wrong shape are skipped rather than rejected.
func ReadLexicon(r io.Reader) (*Lexicon, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w: %w", ErrLexiconFormat, err)
	}
	entries := make(map[string][]string, len(raw))
	for w, msg := range raw {
		var patterns []string
		if err := json.Unmarshal(msg, &patterns); err != nil {
			continue
		}
		entries[w] = patterns
	}
	return NewLexicon(entries), nil
}

// LoadLexiconFile reads a lexicon from path. Files ending in .gz or .xz are
// decompressed transparently.
func LoadLexiconFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip lexicon %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open xz lexicon %s: %w", path, err)
		}
		r = xr
	}

	l, err := ReadLexicon(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// WriteLexicon encodes l as JSON in the format ReadLexicon accepts.
func WriteLexicon(w io.Writer, l *Lexicon) error {
	out := make(map[string][]string, l.Len())
	l.Each(func(word string, patterns []string) {
		out[word] = patterns
	})
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// ResolveLexiconPath picks the lexicon file to load: path if it exists, else
// the file named by envVar, else the first of fallbacks found under
// ~/.metermeter. It returns "" when nothing exists.
func ResolveLexiconPath(path, envVar string, fallbacks ...string) string {
	if p := expandHome(strings.TrimSpace(path)); p != "" && fileExists(p) {
		return p
	}
	if envVar != "" {
		if p := expandHome(strings.TrimSpace(os.Getenv(envVar))); p != "" && fileExists(p) {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range fallbacks {
		candidate := filepath.Join(home, ".metermeter", name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// LoadLexicons builds the lexicon the engine uses: the builtin entries,
// overridden by each existing file in paths, in order. Empty paths are ignored.
func LoadLexicons(paths ...string) (*Lexicon, error) {
	lex := BuiltinLexicon()
	for _, p := range paths {
		if p == "" {
			continue
		}
		extra, err := LoadLexiconFile(p)
		if err != nil {
			return nil, err
		}
		lex = lex.Merge(extra)
	}
	return lex, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
