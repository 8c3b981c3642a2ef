package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/fetchbites/recipecard/cache"
	"github.com/fetchbites/recipecard/config"
	"github.com/fetchbites/recipecard/docgen"
	"github.com/fetchbites/recipecard/layout"
	canvasrenderer "github.com/fetchbites/recipecard/renderer/canvas"
)

func main() {
	recipePath := flag.String("recipe", "", "recipe JSON file path")
	imagePath := flag.String("image", "", "dish photo path (optional)")
	postURL := flag.String("url", "", "source post URL (optional, overrides the recipe's)")
	configPath := flag.String("config", "", "TOML config file path")
	layoutPath := flag.String("layout", "", "layout tuning JSON path (overrides config)")
	pageSize := flag.String("page", "", "page size: letter/a4/legal/tabloid (overrides config)")
	outputDir := flag.String("out", "", "output directory (overrides config)")
	noCache := flag.Bool("no-cache", false, "bypass the artifact cache")
	debugPath := flag.String("debug", "", "write the layout as JSON to this path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *recipePath == "" {
		log.Fatal("missing -recipe")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *pageSize != "" {
		cfg.PageSize = *pageSize
	}
	if *layoutPath != "" {
		cfg.LayoutOverride = *layoutPath
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *noCache {
		cfg.CacheEnabled = false
	}

	doc, err := readRecipe(*recipePath)
	if err != nil {
		log.Fatalf("read recipe: %v", err)
	}

	resolver := layout.NewResolver(layout.ResolverOptions{
		AssetsDir:      cfg.AssetsDir,
		LayoutOverride: cfg.LayoutOverride,
		PageSize:       layout.PageSize(cfg.PageSize),
		Logger:         logger,
	})
	r := canvasrenderer.NewRenderer("")

	gen, err := docgen.NewGenerator(docgen.Options{
		Config:     cfg,
		Resolver:   resolver,
		Typesetter: r,
		Renderer:   r,
		Cache:      cache.NewManager(cachePath(cfg), cfg.LayoutVersion, logger),
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("wire generator: %v", err)
	}

	if *debugPath != "" {
		composed, err := layout.Compose(r, resolver.Context(), layout.ComposeInput{
			Recipe:    doc.toRecipe(),
			ImagePath: *imagePath,
			SourceURL: *postURL,
			TuckNotes: true,
		})
		if err != nil {
			log.Fatalf("compose for debug: %v", err)
		}
		if err := layout.WriteDebugJSON(composed, *debugPath); err != nil {
			log.Fatalf("write debug json: %v", err)
		}
	}

	artifact, err := gen.Generate(context.Background(), doc.toRecipe(), *imagePath, *postURL)
	if err != nil {
		log.Fatalf("generate card: %v", err)
	}
	if artifact.CacheHit {
		fmt.Printf("cached: %s\n", artifact.Path)
	} else {
		fmt.Printf("rendered: %s\n", artifact.Path)
	}
}

func cachePath(cfg config.Config) string {
	if !cfg.CacheEnabled {
		return ""
	}
	return cfg.CachePath
}

func readRecipe(path string) (*recipeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc recipeFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
