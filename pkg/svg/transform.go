// Package svg turns a stand-alone SVG document into the pieces a sprite
// symbol needs: the optimized inner markup and the root element's attributes.
//
// # Optimization
//
// Documents are minified with the tdewolff SVG minifier, which shortens
// numbers and path data and drops comments and whitespace. It keeps unknown
// attributes and presentational stroke/fill attributes, which icon sets rely
// on for theming through currentColor.
//
// # Extraction
//
// The root element is located with a small structural scan (see [Parse]).
// The attributes width, height, class and xmlns are dropped because the
// rendering component or the enclosing sprite controls them. A document
// without a recognizable root yields an empty [Icon] instead of an error.
package svg

import (
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	minsvg "github.com/tdewolff/minify/v2/svg"
)

const mediaType = "image/svg+xml"

// DefaultPrecision keeps every digit. The minifier counts significant digits,
// not decimal places, so any fixed value would round coordinates of large
// viewBoxes.
const DefaultPrecision = 0

// strippedAttrs are root attributes that have no meaning on a <symbol>.
var strippedAttrs = map[string]bool{
	"width":  true,
	"height": true,
	"class":  true,
	"xmlns":  true,
}

// Options configures the optimization pass.
type Options struct {
	// Precision is the number of significant digits kept for numbers,
	// counting digits before the decimal point: 3 turns 1023.75 into 1020.
	// Zero keeps full precision.
	Precision int
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision}
}

// Fingerprint identifies the configuration for cache keys. Two transformers
// with equal fingerprints produce identical output for identical input.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("minify-svg/v2;precision=%d", o.Precision)
}

// Icon is a transformed SVG document.
type Icon struct {
	Content    string `json:"content"`    // markup between the root open and close tags
	Attributes string `json:"attributes"` // root attributes minus the stripped ones
}

// Transformer optimizes SVG documents. It holds no per-call state and may be
// reused for any number of documents.
type Transformer struct {
	opts Options
	m    *minify.M
}

// NewTransformer creates a transformer with the given options.
func NewTransformer(opts Options) *Transformer {
	m := minify.New()
	m.Add(mediaType, &minsvg.Minifier{Precision: opts.Precision})
	return &Transformer{opts: opts, m: m}
}

// Options returns the transformer configuration.
func (t *Transformer) Options() Options {
	return t.opts
}

// Fingerprint returns the fingerprint of the transformer options.
func (t *Transformer) Fingerprint() string {
	return t.opts.Fingerprint()
}

// Transform optimizes raw and extracts its root attributes and inner markup.
// If the optimizer rejects the document, extraction runs on the raw text.
func (t *Transformer) Transform(raw []byte) Icon {
	doc := raw
	if out, err := t.m.Bytes(mediaType, raw); err == nil {
		doc = out
	}
	return Extract(string(doc))
}

// Extract returns the inner markup and cleaned root attributes of doc
// without optimizing it.
func Extract(doc string) Icon {
	root, ok := Parse(doc)
	if !ok {
		return Icon{}
	}

	kept := make([]string, 0, len(root.Attrs))
	for _, a := range root.Attrs {
		if strippedAttrs[a.Name] {
			continue
		}
		kept = append(kept, a.Raw)
	}

	return Icon{
		Content:    root.Content,
		Attributes: strings.TrimSpace(strings.Join(kept, " ")),
	}
}
