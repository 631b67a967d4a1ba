package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// JPEGQuality is the quality used for JPEG export.
const JPEGQuality = 95

var pngFormat = Format{
	Name:       "png",
	Extensions: []string{".png"},
	MIME:       "image/png",
	Encode: func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	},
}

var jpegFormat = Format{
	Name:       "jpeg",
	Extensions: []string{".jpg", ".jpeg"},
	MIME:       "image/jpeg",
	Encode: func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, Flatten(img, color.White), &jpeg.Options{Quality: JPEGQuality})
	},
}

var pdfFormat = Format{
	Name:       "pdf",
	Extensions: []string{".pdf"},
	MIME:       "application/pdf",
	Encode:     encodePDF,
}

// Flatten composites img over an opaque background, for formats without
// alpha.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(dst, img, image.Point{}, 1)
}

// encodePDF writes a single page the size of the image, in points, with
// the image embedded as PNG.
func encodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty image", ErrEmptyData)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	width, height := float64(b.Dx()), float64(b.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("surface", opts, &buf)
	pdf.ImageOptions("surface", 0, 0, width, height, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
