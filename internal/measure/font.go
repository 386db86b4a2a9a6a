package measure

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/loom/internal/content"
)

// DefaultDPI is the resolution faces are created at. At 72 DPI one point
// equals one pixel, so font sizes map directly onto viewport units.
const DefaultDPI = 72

type faceKind int

const (
	faceRegular faceKind = iota
	faceBold
	faceMono
	faceMonoBold
)

type faceKey struct {
	kind faceKind
	size float64
}

// Font measures proportional text with the Go font family. Families whose
// name mentions "mono" or "courier" use Go Mono; everything else uses the
// proportional Go faces. Weights of 600 and above select the bold face.
type Font struct {
	mu    sync.Mutex
	fonts map[faceKind]*opentype.Font
	faces map[faceKey]font.Face
	dpi   float64
}

// NewFont parses the embedded Go fonts.
func NewFont() (*Font, error) {
	sources := map[faceKind][]byte{
		faceRegular:  goregular.TTF,
		faceBold:     gobold.TTF,
		faceMono:     gomono.TTF,
		faceMonoBold: gomonobold.TTF,
	}
	f := &Font{
		fonts: make(map[faceKind]*opentype.Font, len(sources)),
		faces: make(map[faceKey]font.Face),
		dpi:   DefaultDPI,
	}
	for kind, ttf := range sources {
		parsed, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing font %d: %w", kind, err)
		}
		f.fonts[kind] = parsed
	}
	return f, nil
}

// Measure implements Measurer.
func (f *Font) Measure(text string, style content.Style) Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(style)
	if err != nil {
		// Fall back to a fixed advance so layout stays usable.
		return Monospace{Advance: style.FontSize / 2}.Measure(text, style)
	}

	width := toFloat(font.MeasureString(face, text))
	if style.LetterSpacing != 0 {
		width += float64(content.UnitCount(text)) * style.LetterSpacing
	}
	height := style.LineHeight
	if height <= 0 {
		height = toFloat(face.Metrics().Height)
	}
	return Metrics{Width: width, Height: height}
}

// face returns a cached face for style. Must be called with mu held.
func (f *Font) face(style content.Style) (font.Face, error) {
	kind := kindFor(style)
	size := style.FontSize
	if size <= 0 {
		size = content.DefaultFontSize
	}
	key := faceKey{kind: kind, size: size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.fonts[kind], &opentype.FaceOptions{
		Size:    size,
		DPI:     f.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.faces[key] = face
	return face, nil
}

// Close releases all cached faces.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var first error
	for key, face := range f.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
		delete(f.faces, key)
	}
	return first
}

func kindFor(style content.Style) faceKind {
	family := strings.ToLower(style.FontFamily)
	mono := strings.Contains(family, "mono") || strings.Contains(family, "courier")
	switch {
	case mono && style.Bold():
		return faceMonoBold
	case mono:
		return faceMono
	case style.Bold():
		return faceBold
	default:
		return faceRegular
	}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
