package codec

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedFormat is returned when no format matches a name,
	// extension or input stream.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrEmptyData is returned when there is nothing to decode.
	ErrEmptyData = errors.New("codec: empty data")
)

// EncodeFunc writes img to w.
type EncodeFunc func(w io.Writer, img image.Image) error

// Format is a registered export format.
type Format struct {
	// Name is the unique identifier, e.g. "png".
	Name string

	// Extensions lists file extensions including the dot, e.g. ".jpg".
	Extensions []string

	// MIME is the media type of the encoded output.
	MIME string

	// Encode writes an image in this format.
	Encode EncodeFunc
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

func init() {
	globalRegistry.Register(pngFormat)
	globalRegistry.Register(jpegFormat)
	globalRegistry.Register(pdfFormat)
}

// Registry maps names and extensions to formats. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]*Format
}

// NewRegistry creates an empty registry.
// Most code should use the package-level functions instead.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]*Format)}
}

// Register adds a format to the default registry.
func Register(f Format) {
	globalRegistry.Register(f)
}

// Unregister removes a format from the default registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Lookup finds a format in the default registry by name or extension.
func Lookup(name string) (Format, bool) {
	return globalRegistry.Lookup(name)
}

// List returns the default registry's format names, sorted.
func List() []string {
	return globalRegistry.List()
}

// Encode writes img to w in the named format using the default registry.
func Encode(w io.Writer, img image.Image, format string) error {
	return globalRegistry.Encode(w, img, format)
}

// ForPath returns the default registry's format for a file name's
// extension.
func ForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if f, ok := Lookup(ext); ok && ext != "" {
		return f, nil
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Register adds a format. Registering an existing name replaces it.
// Formats without a name or encoder are ignored.
func (r *Registry) Register(f Format) {
	if f.Name == "" || f.Encode == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f.Name = strings.ToLower(f.Name)
	f.Extensions = append([]string(nil), f.Extensions...)
	r.formats[f.Name] = &f
}

// Unregister removes a format.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.formats, strings.ToLower(name))
}

// Lookup finds a format by name (case-insensitive) or by extension with or
// without the leading dot.
func (r *Registry) Lookup(name string) (Format, bool) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.formats[key]; ok {
		return *f, true
	}
	ext := key
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, f := range r.formats {
		for _, e := range f.Extensions {
			if strings.EqualFold(e, ext) {
				return *f, true
			}
		}
	}
	return Format{}, false
}

// List returns all format names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode writes img to w in the named format.
func (r *Registry) Encode(w io.Writer, img image.Image, format string) error {
	f, ok := r.Lookup(format)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := f.Encode(w, img); err != nil {
		return fmt.Errorf("codec: encode %s: %w", f.Name, err)
	}
	return nil
}
