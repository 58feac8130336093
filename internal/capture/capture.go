// Package capture builds capture-item records from submitted media files.
// Image files are decoded and re-encoded into a bounded-size JPEG thumbnail
// carried inline as a data URL; every other file becomes a metadata-only
// video item. Only images are thumbnailed — that is a deliberate storage-size
// tradeoff, not an omission.
package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	apperrors "github.com/kimhsiao/mimo/internal/errors"
	"github.com/kimhsiao/mimo/internal/models"
)

// Defaults for thumbnail generation.
const (
	DefaultMaxDim  = 320
	DefaultQuality = 72
)

// File is a submitted media file. MediaType is the declared type; when blank
// the builder sniffs it from the content.
type File struct {
	Name      string
	MediaType string
	Reader    io.Reader
}

// Builder produces capture items with a fixed thumbnail policy.
type Builder struct {
	maxDim  int
	quality int
}

// NewBuilder creates a Builder with the default thumbnail bounds.
func NewBuilder() *Builder {
	return NewBuilderWith(DefaultMaxDim, DefaultQuality)
}

// NewBuilderWith creates a Builder clamping the longer thumbnail side to
// maxDim and encoding JPEG at the given quality (1-100). Non-positive values
// fall back to the defaults.
func NewBuilderWith(maxDim, quality int) *Builder {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Builder{maxDim: maxDim, quality: quality}
}

// CreateCaptureItem builds a capture item from the file. Image media types
// yield a photo item with an inline thumbnail; everything else yields a
// metadata-only video item. Read or decode failures surface as coded errors
// and produce no item. The note is trimmed and the timestamp is the current
// time at invocation.
func (b *Builder) CreateCaptureItem(ctx context.Context, file File, note string) (*models.CaptureItem, error) {
	item := models.CaptureItem{
		Kind:     models.KindVideo,
		Note:     strings.TrimSpace(note),
		TS:       time.Now().Format(time.RFC3339),
		FileName: file.Name,
	}

	mediaType := file.MediaType

	// A declared non-image type never needs the payload.
	if mediaType != "" && !strings.HasPrefix(mediaType, "image/") {
		return &item, nil
	}

	if file.Reader == nil {
		if mediaType == "" {
			return &item, nil
		}
		return nil, apperrors.New(apperrors.ErrMediaRead, "image file has no content")
	}

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMediaRead, "could not read media file", err)
	}

	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return &item, nil
	}

	thumb, err := b.compressToThumb(ctx, data)
	if err != nil {
		return nil, err
	}
	item.Kind = models.KindPhoto
	item.Thumb = thumb
	return &item, nil
}

// compressToThumb decodes the image, clamps its longer side to the configured
// maximum preserving aspect ratio, and re-encodes it as a JPEG data URL.
func (b *Builder) compressToThumb(_ context.Context, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrMediaDecode, "could not decode image file", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	max := b.maxDim

	if width > height && width > max {
		height = int(math.Round(float64(height*max) / float64(width)))
		width = max
	} else if height >= width && height > max {
		width = int(math.Round(float64(width*max) / float64(height)))
		height = max
	}

	thumb := imaging.Resize(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: b.quality}); err != nil {
		return "", apperrors.Wrap(apperrors.ErrMediaDecode, "could not encode thumbnail", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL splits an encoded data URL into its payload bytes and media
// type. The media type defaults to image/jpeg when the header carries none.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	header, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, "", apperrors.New(apperrors.ErrInvalid, "malformed data URL")
	}

	mediaType := "image/jpeg"
	if rest, ok := strings.CutPrefix(header, "data:"); ok {
		if mt, _, _ := strings.Cut(rest, ";"); mt != "" {
			mediaType = mt
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInvalid, fmt.Sprintf("invalid %s payload", mediaType), err)
	}
	return data, mediaType, nil
}
