package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolverFontLadder(t *testing.T) {
	assets := t.TempDir()
	// 只放梯子第二级的文件，第一级缺失时应落到它
	writeFile(t, filepath.Join(assets, "fonts", "DejaVuSans-Bold.ttf"))
	r := NewResolver(ResolverOptions{AssetsDir: assets, Logger: discard()})

	f := r.Font(RoleTitle)
	if f.Src == "" || filepath.Base(f.Src) != "DejaVuSans-Bold.ttf" {
		t.Errorf("标题字体应落到第二级文件, got %+v", f)
	}
	// 正文梯子没有任何文件：落到系统字体级
	b := r.Font(RoleBody)
	if b.Src != "" || b.System == "" {
		t.Errorf("正文字体应落到系统级, got %+v", b)
	}
}

func TestResolverFontUnknownRole(t *testing.T) {
	r := NewResolver(ResolverOptions{AssetsDir: t.TempDir(), Logger: discard()})
	if got, want := r.Font("banner"), r.Font(RoleBody); got != want {
		t.Errorf("未知角色应退回正文字体: %+v", got)
	}
}

func TestResolverIconVariants(t *testing.T) {
	assets := t.TempDir()
	writeFile(t, filepath.Join(assets, "icons", "clock_small.png"))
	writeFile(t, filepath.Join(assets, "icons", "heart.jpg"))
	r := NewResolver(ResolverOptions{AssetsDir: assets, Logger: discard()})

	cases := []struct {
		name string
		want string // 期望命中的文件名，空串表示未命中
	}{
		{"clock_small", "clock_small.png"},
		{"clock-small", "clock_small.png"}, // 分隔符变体
		{"heart", "heart.jpg"},             // 扩展名轮询
		{"missing", ""},
	}
	for _, c := range cases {
		got := r.Icon(c.name)
		if c.want == "" {
			if got != "" {
				t.Errorf("Icon(%q) = %q, 期望未命中", c.name, got)
			}
			continue
		}
		if filepath.Base(got) != c.want {
			t.Errorf("Icon(%q) = %q, 期望 %q", c.name, got, c.want)
		}
	}
}

func TestResolverPageSizeOverride(t *testing.T) {
	r := NewResolver(ResolverOptions{AssetsDir: t.TempDir(), PageSize: PageA4, Logger: discard()})
	rc := r.Context()
	if rc.PageW != 210 || rc.PageH != 297 {
		t.Errorf("页面尺寸 = %gx%g, 期望 A4", rc.PageW, rc.PageH)
	}
}
