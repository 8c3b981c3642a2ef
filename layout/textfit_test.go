package layout

import (
	"strings"
	"testing"
)

// stub 字宽为 fontSize/2：size 4mm、宽 20mm 时每行恰好 10 个字符。
func fitStyle() Style {
	return Style{Size: 4, LineHeight: 5}
}

func TestTruncateToLinesFullFit(t *testing.T) {
	ts := &stubTypesetter{}
	text := "short"
	got, truncated, err := TruncateToLines(ts, text, 20, fitStyle(), 2)
	if err != nil {
		t.Fatalf("截断失败: %v", err)
	}
	if truncated {
		t.Errorf("放得下的文本不应被截断")
	}
	if got != text {
		t.Errorf("got %q, want %q", got, text)
	}
	if strings.Contains(got, ellipsis) {
		t.Errorf("未截断时不应出现省略号")
	}
}

func TestTruncateToLinesCutsWithEllipsis(t *testing.T) {
	ts := &stubTypesetter{}
	st := fitStyle()
	text := strings.Repeat("abcde ", 10) // 60 字符，远超两行
	got, truncated, err := TruncateToLines(ts, text, 20, st, 2)
	if err != nil {
		t.Fatalf("截断失败: %v", err)
	}
	if !truncated {
		t.Fatalf("超长文本应被截断")
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("截断结果应以省略号结尾: %q", got)
	}
	h, err := measureHeight(ts, got, 20, st)
	if err != nil {
		t.Fatalf("复测高度失败: %v", err)
	}
	if budget := 2 * st.LineHeight; h > budget+1e-6 {
		t.Errorf("截断后高度 %g 仍超两行预算 %g", h, budget)
	}
	// 再多一个字符就放不下：验证取的是最长可行前缀
	runes := []rune(strings.TrimSuffix(got, ellipsis))
	longer := trimTrailingSpace(string([]rune(text)[:len(runes)+1])) + ellipsis
	lh, err := measureHeight(ts, longer, 20, st)
	if err != nil {
		t.Fatalf("复测高度失败: %v", err)
	}
	if lh <= 2*st.LineHeight+1e-6 {
		t.Errorf("还有更长的前缀可以放下，截断不是最长前缀")
	}
}

func TestTruncateToLinesEmpty(t *testing.T) {
	ts := &stubTypesetter{}
	got, truncated, err := TruncateToLines(ts, "", 20, fitStyle(), 2)
	if err != nil || truncated || got != "" {
		t.Errorf("空文本应原样返回: %q %v %v", got, truncated, err)
	}
}

func TestShrinkToFitNoShrinkNeeded(t *testing.T) {
	scale, err := ShrinkToFit(100, 0.6, func(s float64) (float64, error) {
		return 50 * s, nil
	})
	if err != nil {
		t.Fatalf("缩放失败: %v", err)
	}
	if scale != 1.0 {
		t.Errorf("放得下时 scale = %g, 期望 1", scale)
	}
}

func TestShrinkToFitFindsScale(t *testing.T) {
	// 高度与比例成正比：100*s ≤ 80 → 最大可行比例 0.8
	scale, err := ShrinkToFit(80, 0.6, func(s float64) (float64, error) {
		return 100 * s, nil
	})
	if err != nil {
		t.Fatalf("缩放失败: %v", err)
	}
	if scale < 0.75 || scale > 0.8 {
		t.Errorf("scale = %g, 期望接近 0.8 且不超过", scale)
	}
}

func TestShrinkToFitFloorsAtMinScale(t *testing.T) {
	scale, err := ShrinkToFit(10, 0.6, func(s float64) (float64, error) {
		return 1000, nil
	})
	if err != nil {
		t.Fatalf("缩放失败: %v", err)
	}
	if scale != 0.6 {
		t.Errorf("放不下时应停在下限: scale = %g", scale)
	}
}
