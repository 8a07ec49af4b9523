package artifact

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // Renderer output format.
	"os"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

// DefaultJPEGQuality is the quality used when encoding lossy artifacts.
const DefaultJPEGQuality = 95

// Converter transcodes rendered artifacts.
type Converter interface {
	// Convert reads the image at src and writes it in the converter format at dst.
	Convert(ctx context.Context, src, dst string) error
}

//go:generate mockery --case underscore --output artifactmock --outpkg artifactmock --name Converter

// JPEGConverterConfig is the configuration of the JPEG converter.
type JPEGConverterConfig struct {
	Quality int
	Logger  log.Logger
}

func (c *JPEGConverterConfig) defaults() error {
	if c.Quality == 0 {
		c.Quality = DefaultJPEGQuality
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be in [1, 100], got: %d", c.Quality)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "artifact.JPEGConverter"})
	return nil
}

// JPEGConverter converts lossless images to JPEG, dropping the alpha channel
// and keeping the pixel dimensions.
type JPEGConverter struct {
	quality int
	logger  log.Logger
}

// NewJPEGConverter returns a new JPEG converter.
func NewJPEGConverter(cfg JPEGConverterConfig) (*JPEGConverter, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &JPEGConverter{
		quality: cfg.Quality,
		logger:  cfg.Logger,
	}, nil
}

func (j *JPEGConverter) Convert(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", src, err)
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", src, model.ErrArtifactDecode, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", dst, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, toRGB(img), &jpeg.Options{Quality: j.quality}); err != nil {
		os.Remove(dst)
		return fmt.Errorf("could not encode %s: %w", dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", dst, err)
	}

	j.logger.WithCtxValues(ctx).Debugf("Converted %s (%s) to %s", src, format, dst)

	return nil
}

// toRGB copies the color channels into an opaque image with the same bounds.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgb := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rgb.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return rgb
}
