package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Decode reads an image in any supported format and returns it as
// non-premultiplied RGBA together with the format name.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, "", fmt.Errorf("codec: decode: %w", err)
	}
	return imaging.Clone(img), format, nil
}

type decodeResult struct {
	img    *image.NRGBA
	format string
	err    error
}

// contextReader refuses further reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// DecodeContext is Decode with cancellation. Decoding runs on its own
// goroutine; when ctx is done first, DecodeContext returns ctx.Err() and the
// decoder gets an error on its next read. If r is an io.Closer it is closed
// as well, which releases a Read blocked on a pipe or connection. Otherwise
// a Read that never returns keeps the goroutine alive until it does.
func DecodeContext(ctx context.Context, r io.Reader) (*image.NRGBA, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	done := make(chan decodeResult, 1)
	go func() {
		img, format, err := Decode(contextReader{ctx: ctx, r: r})
		done <- decodeResult{img, format, err}
	}()
	select {
	case <-ctx.Done():
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, "", ctx.Err()
	case res := <-done:
		return res.img, res.format, res.err
	}
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (*image.NRGBA, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// DecodeConfig reports the dimensions and format without decoding pixels.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return cfg, format, nil
}
