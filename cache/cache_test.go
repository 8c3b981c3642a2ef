package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fetchbites/recipecard/recipe"
)

func newTestManager(t *testing.T, layoutVersion string) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	return NewManager(path, layoutVersion, slog.New(slog.DiscardHandler)), dir
}

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFingerprintDeterministicAndTrimmed(t *testing.T) {
	a := Fingerprint("chef", "Great pasta", "v2")
	b := Fingerprint("  chef  ", "\nGreat pasta\t", "v2")
	if a != b {
		t.Errorf("边缘空白不应改变指纹")
	}
	if len(a) != 64 {
		t.Errorf("指纹长度 = %d, 期望 64 位十六进制", len(a))
	}
	if a == Fingerprint("chef", "Great pasta", "v3") {
		t.Errorf("布局版本应参与指纹")
	}
	if a == Fingerprint("otherchef", "Great pasta", "v2") {
		t.Errorf("创作者应参与指纹")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	m, dir := newTestManager(t, "v2")
	artifact := writeArtifact(t, dir, "pasta.pdf")

	fp := Fingerprint("chef", "pasta", "v2")
	err := m.Set(Entry{
		Fingerprint:  fp,
		Recipe:       recipe.Document{Title: "Pasta"},
		ArtifactPath: artifact,
	})
	if err != nil {
		t.Fatalf("Set 失败: %v", err)
	}

	got, ok := m.Get(fp)
	if !ok {
		t.Fatalf("Set 之后 Get 应命中")
	}
	if got.Recipe.Title != "Pasta" || got.ArtifactPath != artifact {
		t.Errorf("条目内容不符: %+v", got)
	}
	if got.LayoutVersion != "v2" {
		t.Errorf("Set 应补上当前布局版本, got %q", got.LayoutVersion)
	}
	if got.CachedAt.IsZero() {
		t.Errorf("Set 应补上缓存时间")
	}
}

func TestGetMissesOnLayoutVersionMismatch(t *testing.T) {
	m, dir := newTestManager(t, "v2")
	artifact := writeArtifact(t, dir, "pasta.pdf")
	fp := "abc123"
	if err := m.Set(Entry{Fingerprint: fp, ArtifactPath: artifact, LayoutVersion: "v1"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get(fp); ok {
		t.Errorf("布局版本不符的条目不应命中")
	}
	if m.Exists(fp) {
		t.Errorf("Exists 同样要求版本匹配")
	}
}

func TestGetMissesWhenArtifactDeleted(t *testing.T) {
	m, dir := newTestManager(t, "v2")
	artifact := writeArtifact(t, dir, "pasta.pdf")
	fp := "abc123"
	if err := m.Set(Entry{Fingerprint: fp, ArtifactPath: artifact}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(artifact); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get(fp); ok {
		t.Errorf("文件被删后 Get 不应命中")
	}
	// Exists 只看记录本身
	if !m.Exists(fp) {
		t.Errorf("Exists 不校验文件，应仍然为真")
	}
}

func TestPersistenceAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	artifact := writeArtifact(t, dir, "pasta.pdf")
	fp := "persisted"

	m1 := NewManager(path, "v2", slog.New(slog.DiscardHandler))
	if err := m1.Set(Entry{Fingerprint: fp, ArtifactPath: artifact}); err != nil {
		t.Fatal(err)
	}

	m2 := NewManager(path, "v2", slog.New(slog.DiscardHandler))
	if _, ok := m2.Get(fp); !ok {
		t.Errorf("新实例应从磁盘读回条目")
	}
}

func TestCorruptStoreStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	if err := os.WriteFile(path, []byte("{corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path, "v2", slog.New(slog.DiscardHandler))
	if m.Count() != 0 {
		t.Errorf("坏文件应当作空缓存冷启动")
	}
	// 仍可正常写入
	artifact := writeArtifact(t, dir, "pasta.pdf")
	if err := m.Set(Entry{Fingerprint: "x", ArtifactPath: artifact}); err != nil {
		t.Errorf("冷启动后写入失败: %v", err)
	}
}

func TestSetOverwritesWholeEntry(t *testing.T) {
	m, dir := newTestManager(t, "v2")
	a1 := writeArtifact(t, dir, "a1.pdf")
	a2 := writeArtifact(t, dir, "a2.pdf")
	fp := "same"
	if err := m.Set(Entry{Fingerprint: fp, ArtifactPath: a1, Caption: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(Entry{Fingerprint: fp, ArtifactPath: a2}); err != nil {
		t.Fatal(err)
	}
	got, ok := m.Get(fp)
	if !ok {
		t.Fatal("应命中")
	}
	if got.ArtifactPath != a2 || got.Caption != "" {
		t.Errorf("Set 应整体覆盖旧条目: %+v", got)
	}
	if m.Count() != 1 {
		t.Errorf("同指纹重复 Set 不应增加条目数")
	}
}

func TestNoopWhenPathEmpty(t *testing.T) {
	m := NewManager("", "v2", slog.New(slog.DiscardHandler))
	if err := m.Set(Entry{Fingerprint: "x", ArtifactPath: "/nonexistent"}); err != nil {
		t.Errorf("无路径时 Set 应为 no-op: %v", err)
	}
	if _, ok := m.Get("x"); ok {
		t.Errorf("无路径时一切查询都应未命中")
	}
}
