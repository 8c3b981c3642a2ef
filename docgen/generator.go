// Package docgen orchestrates one card generation end to end: fingerprint,
// cache lookup, layout, rendering and atomic artifact placement.
package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/fetchbites/recipecard/cache"
	"github.com/fetchbites/recipecard/config"
	"github.com/fetchbites/recipecard/layout"
	"github.com/fetchbites/recipecard/recipe"
	"github.com/fetchbites/recipecard/renderer"
)

// qrBlobName is the built-in resource name the renderer serves QR bytes under.
const qrBlobName = "source-qr"

// ImageRegistrar is implemented by renderers that accept injected image
// blobs (the canvas renderer does). Generators use it to hand over the
// per-render QR code without touching the filesystem.
type ImageRegistrar interface {
	RegisterImage(name string, data []byte)
}

// Artifact describes the outcome of one generation.
type Artifact struct {
	Path     string
	CacheHit bool
}

// Generator wires the full pipeline together. The same typesetter instance
// must serve both measurement and drawing, otherwise wrap decisions and ink
// drift apart.
type Generator struct {
	cfg       config.Config
	resolver  *layout.Resolver
	typeset   layout.Typesetter
	renderer  renderer.Renderer
	cache     *cache.Manager
	shortener *Shortener
	logger    *slog.Logger
}

// Options collects the Generator dependencies.
type Options struct {
	Config   config.Config
	Resolver *layout.Resolver
	// Typesetter measures text; usually the renderer itself.
	Typesetter layout.Typesetter
	Renderer   renderer.Renderer
	Cache      *cache.Manager
	// Client is used for URL shortening; nil gets a bounded default.
	Client *http.Client
	Logger *slog.Logger
}

// NewGenerator validates the wiring and returns a generator.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("typesetter is required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "docgen")

	c := opts.Cache
	if c == nil {
		c = cache.NewManager("", opts.Config.LayoutVersion, logger)
	}
	return &Generator{
		cfg:       opts.Config,
		resolver:  opts.Resolver,
		typeset:   opts.Typesetter,
		renderer:  opts.Renderer,
		cache:     c,
		shortener: NewShortener(opts.Config.ShortLinks, opts.Client, logger),
		logger:    logger,
	}, nil
}

// Generate renders one recipe card, or returns the cached artifact when the
// same creator/caption/layout-version combination was rendered before.
// Failure yields a zero Artifact and an error; no partial file ever lands at
// the canonical path and nothing is cached for a failed render.
func (g *Generator) Generate(ctx context.Context, doc recipe.Document, imagePath, postURL string) (Artifact, error) {
	handle := doc.Source.Handle
	if strings.TrimSpace(handle) == "" {
		handle = doc.Source.Creator
	}
	caption := doc.Source.Caption
	if strings.TrimSpace(caption) == "" {
		caption = doc.Title
	}
	fp := cache.Fingerprint(handle, caption, g.cfg.LayoutVersion)

	if g.cfg.CacheEnabled {
		if entry, ok := g.cache.Get(fp); ok {
			g.logger.Info("serving cached card",
				"fingerprint", fp[:8], "path", entry.ArtifactPath)
			return Artifact{Path: entry.ArtifactPath, CacheHit: true}, nil
		}
	}

	sourceURL := postURL
	if sourceURL == "" {
		sourceURL = doc.Source.URL
	}
	displayURL := sourceURL
	if sourceURL != "" {
		displayURL = g.shortener.Shorten(ctx, sourceURL)
	}

	// QR 码 best-effort：编码失败或渲染器不收图时只是没有二维码
	qrRef := ""
	if sourceURL != "" {
		if reg, ok := g.renderer.(ImageRegistrar); ok {
			png, err := qrcode.Encode(sourceURL, qrcode.Medium, 256)
			if err != nil {
				g.logger.Warn("qr encode failed, card will omit it", "error", err)
			} else {
				reg.RegisterImage(qrBlobName, png)
				qrRef = "built-in:" + qrBlobName
			}
		}
	}

	rc := g.resolver.Context()
	composed, err := layout.Compose(g.typeset, rc, layout.ComposeInput{
		Recipe:    doc,
		ImagePath: imagePath,
		SourceURL: displayURL,
		QRImage:   qrRef,
		TuckNotes: true,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("compose card: %w", err)
	}

	pdfBytes, err := g.renderer.Render(composed)
	if err != nil {
		return Artifact{}, fmt.Errorf("render card: %w", err)
	}

	path, err := g.writeArtifact(doc, fp, pdfBytes)
	if err != nil {
		return Artifact{}, err
	}

	if g.cfg.CacheEnabled {
		err := g.cache.Set(cache.Entry{
			Fingerprint:   fp,
			Recipe:        recipe.Sanitize(doc),
			Caption:       caption,
			ArtifactPath:  path,
			LayoutVersion: g.cfg.LayoutVersion,
		})
		if err != nil {
			// 产物已经落盘可用，缓存失败只降级为下次重渲
			g.logger.Warn("artifact rendered but not cached", "error", err)
		}
	}

	g.logger.Info("rendered card",
		"fingerprint", fp[:8], "path", path, "bytes", len(pdfBytes))
	return Artifact{Path: path}, nil
}

// writeArtifact places the PDF atomically: write a uuid-named temp file in
// the output directory, then rename to the canonical slug name.
func (g *Generator) writeArtifact(doc recipe.Document, fingerprint string, data []byte) (string, error) {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	final := filepath.Join(g.cfg.OutputDir,
		fmt.Sprintf("%s_%s.pdf", slugify(doc.Title), fingerprint[:8]))
	tmp := filepath.Join(g.cfg.OutputDir, fmt.Sprintf(".%s.pdf", uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("place artifact: %w", err)
	}
	return final, nil
}

// slugify lowercases the title and keeps letters and digits, joining runs
// with single dashes.
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "recipe-card"
	}
	return s
}
