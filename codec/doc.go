// Package codec encodes and decodes whole images for import and export.
//
// Export formats are kept in a Registry keyed by name and file extension.
// The default registry holds "png", "jpeg" and "pdf"; callers may register
// more:
//
//	codec.Register(codec.Format{
//	    Name:       "bmp",
//	    Extensions: []string{".bmp"},
//	    Encode:     func(w io.Writer, img image.Image) error { return bmp.Encode(w, img) },
//	})
//
// Decode accepts PNG, JPEG, GIF, BMP, TIFF and WebP.
package codec
