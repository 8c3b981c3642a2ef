package layout

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Font roles exposed to the builders. Builders never branch on which family
// actually resolved; they only ever ask for a role.
const (
	RoleTitle   = "title"
	RoleHeading = "heading"
	RoleBody    = "body"
	RoleMeta    = "meta"
)

// FontCandidate is one rung of a fallback ladder: either a font file relative
// to the assets root, or a system font name.
type FontCandidate struct {
	File   string
	System string
	Style  string
}

// fontLadders lists the candidates per role, tried in order. The decorative
// families ship in the assets directory; the system rungs keep the card
// rendering on machines without them. The renderer holds the very last
// resort (a generic sans-serif) for when even the system rung is missing.
var fontLadders = map[string][]FontCandidate{
	RoleTitle: {
		{File: "fonts/PlayfairDisplay-Bold.ttf", Style: "Bold"},
		{File: "fonts/DejaVuSans-Bold.ttf", Style: "Bold"},
		{System: "DejaVu Sans", Style: "Bold"},
	},
	RoleHeading: {
		{File: "fonts/PlayfairDisplay-SemiBold.ttf", Style: "SemiBold"},
		{File: "fonts/DejaVuSans-Bold.ttf", Style: "Bold"},
		{System: "DejaVu Sans", Style: "Bold"},
	},
	RoleBody: {
		{File: "fonts/Lato-Regular.ttf"},
		{File: "fonts/DejaVuSans.ttf"},
		{System: "DejaVu Sans"},
	},
	RoleMeta: {
		{File: "fonts/Lato-Italic.ttf", Style: "Italic"},
		{File: "fonts/DejaVuSans-Oblique.ttf", Style: "Italic"},
		{System: "DejaVu Sans", Style: "Italic"},
	},
}

var iconExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// Resolver locates the assets root, resolves font roles through their
// fallback ladders and finds icon files by name variants. Construction does
// all the filesystem probing; the resulting context is reused across renders
// and safe for concurrent use (it is not mutated afterwards).
type Resolver struct {
	assetsDir string
	cfg       Config
	fonts     map[string]FontResource
	logger    *slog.Logger
}

// ResolverOptions configures construction. Zero values select discovery and
// built-in defaults throughout.
type ResolverOptions struct {
	// AssetsDir overrides assets-root discovery when set.
	AssetsDir string
	// LayoutOverride is an optional JSON tuning file (non-fatal when broken).
	LayoutOverride string
	// PageSize overrides the page variant from the tuning file when set.
	PageSize PageSize
	Logger   *slog.Logger
}

// NewResolver builds a resolver; it never fails. Missing assets degrade the
// ladders to their system rungs, missing tuning files degrade to defaults.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "layout")

	cfg := LoadConfig(opts.LayoutOverride, logger)
	if opts.PageSize != "" {
		cfg.Page.Size = opts.PageSize
	}

	r := &Resolver{
		assetsDir: findAssetsRoot(opts.AssetsDir),
		cfg:       cfg,
		fonts:     make(map[string]FontResource, len(fontLadders)),
		logger:    logger,
	}
	for role, ladder := range fontLadders {
		r.fonts[role] = r.resolveFont(role, ladder)
	}
	return r
}

// findAssetsRoot honors an explicit override, then walks ancestor
// directories looking for an assets/ directory carrying fonts or icons, and
// finally falls back to a local ./assets default.
func findAssetsRoot(override string) string {
	if override != "" {
		return override
	}
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, "assets")
			if hasAssetLayout(candidate) {
				return candidate
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "assets"
}

func hasAssetLayout(dir string) bool {
	for _, sub := range []string{"fonts", "icons"} {
		if info, err := os.Stat(filepath.Join(dir, sub)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// resolveFont walks the ladder and returns the first rung that resolves:
// file rungs must exist on disk, system rungs always resolve here and are
// verified by the renderer when the family is first loaded.
func (r *Resolver) resolveFont(role string, ladder []FontCandidate) FontResource {
	for _, c := range ladder {
		if c.File != "" {
			path := filepath.Join(r.assetsDir, c.File)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return FontResource{
					Role:   role,
					Family: strings.TrimSuffix(filepath.Base(c.File), filepath.Ext(c.File)),
					Src:    path,
					Style:  c.Style,
				}
			}
			continue
		}
		if c.System != "" {
			return FontResource{Role: role, Family: c.System, System: c.System, Style: c.Style}
		}
	}
	r.logger.Warn("font ladder exhausted, renderer fallback will be used", "role", role)
	return FontResource{Role: role, Family: role}
}

// Font returns the resolved resource for a role. Unknown roles degrade to
// the body font.
func (r *Resolver) Font(role string) FontResource {
	if f, ok := r.fonts[role]; ok {
		return f
	}
	return r.fonts[RoleBody]
}

// Icon resolves an icon name to a file path, trying separator variants
// (clock-small, clock_small) and lowercase across the known extensions.
// Returns "" when nothing matches; every caller placing an icon+text
// composite must accept that and fall back to text-only.
func (r *Resolver) Icon(name string) string {
	if name == "" {
		return ""
	}
	variants := []string{
		name,
		strings.ReplaceAll(name, "-", "_"),
		strings.ReplaceAll(name, "_", "-"),
		strings.ToLower(name),
	}
	seen := map[string]struct{}{}
	for _, v := range variants {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		for _, ext := range iconExtensions {
			path := filepath.Join(r.assetsDir, "icons", v+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Config returns the effective layout configuration.
func (r *Resolver) Config() Config { return r.cfg }

// Context materializes the per-render geometry: effective page size, margins
// and resolved fonts. Building it is cheap; the resolver itself holds the
// probed state.
type Context struct {
	Config Config
	PageW  float64
	PageH  float64
	Margin Margin
	fonts  map[string]FontResource
	res    *Resolver
}

// Context returns a render context for the configured page variant.
func (r *Resolver) Context() *Context {
	w, h := r.cfg.Page.Size.Dimensions()
	return &Context{
		Config: r.cfg,
		PageW:  w,
		PageH:  h,
		Margin: r.cfg.Margin(),
		fonts:  r.fonts,
		res:    r,
	}
}

// Font returns the resolved font for a role (see Resolver.Font).
func (c *Context) Font(role string) FontResource {
	if f, ok := c.fonts[role]; ok {
		return f
	}
	return c.fonts[RoleBody]
}

// Icon resolves an icon through the owning resolver.
func (c *Context) Icon(name string) string { return c.res.Icon(name) }

// ContentWidth is the horizontal space between the margins.
func (c *Context) ContentWidth() float64 {
	return c.PageW - c.Margin.Left - c.Margin.Right
}
