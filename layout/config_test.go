package layout

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("", discard())
	if cfg.Page.Size != PageLetter {
		t.Errorf("默认纸型 = %q, 期望 letter", cfg.Page.Size)
	}
	if cfg.Columns.LeftPct != 0.4 {
		t.Errorf("left_pct = %g, 期望 0.4", cfg.Columns.LeftPct)
	}
	if cfg.Directions.StepGap != 12 || cfg.Directions.LineHeight != 14 {
		t.Errorf("directions 默认值不符: %+v", cfg.Directions)
	}
}

func TestLoadConfigOverrideMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	data := `{"page":{"size":"a4"},"columns":{"left_pct":0.35},"header":{"desc_leading":16,"row_gaps":{"title_desc":8,"meta_rows":6}},"stats":{"padding":{"t":24,"b":24,"x":14}},"directions":{"step_gap":10,"line_height":13}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadConfig(path, discard())
	if cfg.Page.Size != PageA4 {
		t.Errorf("纸型 = %q, 期望 a4", cfg.Page.Size)
	}
	if cfg.Columns.LeftPct != 0.35 {
		t.Errorf("left_pct = %g, 期望 0.35", cfg.Columns.LeftPct)
	}
	if cfg.Directions.StepGap != 10 {
		t.Errorf("step_gap = %g, 期望 10", cfg.Directions.StepGap)
	}
}

func TestLoadConfigMalformedFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadConfig(path, discard())
	if cfg.Columns.LeftPct != 0.4 || cfg.Page.Size != PageLetter {
		t.Errorf("坏文件应回落默认值: %+v", cfg)
	}
}

func TestLoadConfigInvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(`{"columns":{"left_pct":1.5}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadConfig(path, discard())
	if cfg.Columns.LeftPct != 0.4 {
		t.Errorf("非法 left_pct 应整体回落默认值, got %g", cfg.Columns.LeftPct)
	}
}

func TestPageSizeDimensions(t *testing.T) {
	cases := []struct {
		size PageSize
		w, h float64
	}{
		{PageLetter, 215.9, 279.4},
		{PageA4, 210, 297},
		{PageLegal, 215.9, 355.6},
		{PageTabloid, 279.4, 431.8},
		{PageSize("A4"), 210, 297},         // 大小写不敏感
		{PageSize("unknown"), 215.9, 279.4}, // 未知回落 Letter
	}
	for _, c := range cases {
		w, h := c.size.Dimensions()
		if w != c.w || h != c.h {
			t.Errorf("%q → %gx%g, 期望 %gx%g", c.size, w, h, c.w, c.h)
		}
	}
}
