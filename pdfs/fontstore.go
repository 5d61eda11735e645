package pdfs

import (
	"fmt"
	"os"
	"sort"
)

// FontStore holds UTF-8 TrueType font programs keyed by family and style.
// Read-only after loading; safe to share between writers.
type FontStore struct {
	fonts map[FontKey][]byte
}

type FontKey struct {
	Family string
	Style  string // "" or "B"
}

func NewFontStore() *FontStore {
	return &FontStore{fonts: make(map[FontKey][]byte)}
}

func (s *FontStore) Store(family string, style string, ttf []byte) {
	s.fonts[FontKey{Family: family, Style: style}] = ttf
}

func (s *FontStore) StoreFile(family string, style string, path string) error {
	ttf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	s.Store(family, style, ttf)
	return nil
}

func (s *FontStore) Get(family string, style string) ([]byte, bool) {
	ttf, ok := s.fonts[FontKey{Family: family, Style: style}]
	return ttf, ok
}

// Has reports whether family has a regular face
func (s *FontStore) Has(family string) bool {
	if s == nil {
		return false
	}
	_, ok := s.fonts[FontKey{Family: family}]
	return ok
}

// RegularFamily is the first family, in key order, with a regular face.
// Bold-only families cannot be selected for body text.
func (s *FontStore) RegularFamily() (string, bool) {
	for _, k := range s.Keys() {
		if k.Style == "" {
			return k.Family, true
		}
	}
	return "", false
}

// Keys in a stable order so font registration does not depend on map order
func (s *FontStore) Keys() []FontKey {
	if s == nil {
		return nil
	}
	keys := make([]FontKey, 0, len(s.fonts))
	for k := range s.fonts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Family != keys[j].Family {
			return keys[i].Family < keys[j].Family
		}
		return keys[i].Style < keys[j].Style
	})
	return keys
}

func (s *FontStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fonts)
}
