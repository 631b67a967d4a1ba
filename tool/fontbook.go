// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tool

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gg-paint/cache"
)

// Built-in font families.
const (
	FamilyGo       = "Go"
	FamilyGoMono   = "Go Mono"
	FamilyGoMedium = "Go Medium"
)

type variant uint8

const (
	variantBold variant = 1 << iota
	variantItalic
)

func variantOf(f Font) variant {
	var v variant
	if f.Bold {
		v |= variantBold
	}
	if f.Italic {
		v |= variantItalic
	}
	return v
}

type fontKey struct {
	family string // lowercased
	style  variant
}

type faceKey struct {
	fontKey
	size int
}

// FontBook resolves a Font to a text.Face.
//
// Font data is parsed on first use and faces are kept in an LRU cache keyed
// by family, variant and size. A missing variant falls back to the nearest
// registered one (dropping italic, then bold). FontBook is safe for
// concurrent use.
type FontBook struct {
	mu      sync.Mutex
	names   map[string]string // lowercased family -> display name
	data    map[fontKey][]byte
	sources map[fontKey]*text.FontSource
	faces   *cache.LRU[faceKey, text.Face]
}

// NewFontBook returns a FontBook holding the Go font families.
func NewFontBook() *FontBook {
	b := &FontBook{
		names:   make(map[string]string),
		data:    make(map[fontKey][]byte),
		sources: make(map[fontKey]*text.FontSource),
		faces:   cache.New[faceKey, text.Face](cache.DefaultCapacity),
	}
	b.add(FamilyGo, 0, goregular.TTF)
	b.add(FamilyGo, variantBold, gobold.TTF)
	b.add(FamilyGo, variantItalic, goitalic.TTF)
	b.add(FamilyGo, variantBold|variantItalic, gobolditalic.TTF)
	b.add(FamilyGoMono, 0, gomono.TTF)
	b.add(FamilyGoMono, variantBold, gomonobold.TTF)
	b.add(FamilyGoMono, variantItalic, gomonoitalic.TTF)
	b.add(FamilyGoMono, variantBold|variantItalic, gomonobolditalic.TTF)
	b.add(FamilyGoMedium, 0, gomedium.TTF)
	b.add(FamilyGoMedium, variantItalic, gomediumitalic.TTF)
	return b
}

func (b *FontBook) add(family string, v variant, ttf []byte) {
	key := fontKey{family: strings.ToLower(family), style: v}
	b.names[key.family] = family
	b.data[key] = ttf
	delete(b.sources, key)
}

// Register adds or replaces font data for a family variant.
// The data is parsed immediately so that invalid fonts are rejected here.
func (b *FontBook) Register(family string, bold, italic bool, ttf []byte) error {
	family = strings.TrimSpace(family)
	if family == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownFamily)
	}
	src, err := text.NewFontSource(ttf)
	if err != nil {
		return fmt.Errorf("tool: register %q: %w", family, err)
	}

	v := variantOf(Font{Bold: bold, Italic: italic})
	key := fontKey{family: strings.ToLower(family), style: v}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.add(family, v, ttf)
	b.sources[key] = src
	b.faces.Clear()
	return nil
}

// Families returns the registered family names, sorted.
func (b *FontBook) Families() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.names))
	for _, name := range b.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Face returns the face for f. Sizes below 1 are treated as 1.
func (b *FontBook) Face(f Font) (text.Face, error) {
	size := max(f.Size, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	key, ok := b.resolve(f)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, f.Family)
	}
	fk := faceKey{fontKey: key, size: size}
	if face, ok := b.faces.Get(fk); ok {
		return face, nil
	}

	src, ok := b.sources[key]
	if !ok {
		var err error
		src, err = text.NewFontSource(b.data[key])
		if err != nil {
			return nil, fmt.Errorf("tool: load %q: %w", f.Family, err)
		}
		b.sources[key] = src
	}
	face := src.Face(float64(size))
	b.faces.Set(fk, face)
	return face, nil
}

// resolve finds the closest registered variant.
func (b *FontBook) resolve(f Font) (fontKey, bool) {
	family := strings.ToLower(strings.TrimSpace(f.Family))
	want := variantOf(f)
	for _, v := range []variant{want, want &^ variantItalic, want &^ variantBold, 0} {
		key := fontKey{family: family, style: v}
		if _, ok := b.data[key]; ok {
			return key, true
		}
	}
	return fontKey{}, false
}

// CacheStats reports face cache statistics.
func (b *FontBook) CacheStats() cache.Stats {
	return b.faces.Stats()
}
