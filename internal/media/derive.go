package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path"

	"github.com/disintegration/imaging"

	"github.com/Skotchmaster/storefront/internal/metrics"
)

var (
	ErrImageProcessing  = errors.New("image processing failed")
	ErrUnsupportedImage = errors.New("unsupported image")
)

type Size struct {
	Width, Height int
}

var (
	MediumSize    = Size{Width: 500, Height: 500}
	ThumbnailSize = Size{Width: 100, Height: 100}
)

type Derived struct {
	Medium    string
	Thumbnail string
}

// Deriver produces the medium and thumbnail copies of a product image.
type Deriver struct {
	Storage Storage
}

// Derive reads original from storage and writes both scaled copies in the
// original's format. Images smaller than a box are copied unscaled.
func (d *Deriver) Derive(original string) (Derived, error) {
	derived, err := d.derive(original)
	if err != nil {
		metrics.ImageDerivations.WithLabelValues("error").Inc()
		return Derived{}, err
	}
	metrics.ImageDerivations.WithLabelValues("ok").Inc()
	return derived, nil
}

func (d *Deriver) derive(original string) (Derived, error) {
	src, format, err := d.decode(original)
	if err != nil {
		return Derived{}, err
	}

	base := path.Base(original)

	medium, err := d.store(src, format, MediumSize, path.Join(MediumDir, base))
	if err != nil {
		return Derived{}, err
	}

	thumb, err := d.store(src, format, ThumbnailSize, path.Join(ThumbnailDir, base))
	if err != nil {
		_ = d.Storage.Remove(medium)
		return Derived{}, err
	}

	return Derived{Medium: medium, Thumbnail: thumb}, nil
}

// Discard removes files written by a Derive call whose result was not persisted.
func (d *Deriver) Discard(derived Derived) {
	for _, name := range []string{derived.Medium, derived.Thumbnail} {
		if name != "" {
			_ = d.Storage.Remove(name)
		}
	}
}

func (d *Deriver) decode(name string) (image.Image, imaging.Format, error) {
	rc, err := d.Storage.Open(name)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: open %s: %w", ErrImageProcessing, name, err)
	}
	defer rc.Close()

	img, formatName, err := image.Decode(rc)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decode %s: %w", ErrImageProcessing, name, err)
	}

	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrImageProcessing, name, err)
	}
	return img, format, nil
}

func (d *Deriver) store(src image.Image, format imaging.Format, box Size, name string) (string, error) {
	dst := imaging.Fit(src, box.Width, box.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, format); err != nil {
		return "", fmt.Errorf("%w: encode %s: %w", ErrImageProcessing, name, err)
	}

	saved, err := d.Storage.Save(name, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageProcessing, err)
	}
	return saved, nil
}

// Sniff checks that r starts with a decodable image header and rewinds it.
func Sniff(r io.ReadSeeker) error {
	if _, _, err := image.DecodeConfig(r); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	_, err := r.Seek(0, io.SeekStart)
	return err
}
