package layout

import (
	"fmt"
	"strconv"

	"github.com/fetchbites/recipecard/recipe"
)

const (
	columnGutter    = 8.0 // 两栏之间的间距（mm）
	headingGapBelow = 3.5 // 栏标题与首条内容的间距（mm）
	bulletIndent    = 4.0 // 圆点到文字的缩进（mm）
	bulletRadius    = 0.8
	noIngredients   = "No ingredients listed"
)

// buildColumns 组合正文两栏：左栏食材清单、右栏编号步骤。两栏各自独立
// 构建与缩放——一栏超长不会拖累另一栏的字号。y 为两栏顶边，availH 为
// 页眉与页脚装饰带之间的可用高度。
func buildColumns(ts Typesetter, rc *Context, doc recipe.Document, y, availH float64) (section, error) {
	var sec section
	width := rc.ContentWidth()
	leftW := width * rc.Config.Columns.LeftPct
	rightX := rc.Margin.Left + leftW + columnGutter
	rightW := width - leftW - columnGutter

	left, err := buildIngredientColumn(ts, rc, doc.Ingredients, rc.Margin.Left, y, leftW-columnGutter/2, availH)
	if err != nil {
		return sec, err
	}
	right, err := buildDirectionColumn(ts, rc, doc.Instructions, rightX, y, rightW, availH)
	if err != nil {
		return sec, err
	}

	sec.merge(left)
	sec.merge(right)
	if right.Height > left.Height {
		sec.Height = right.Height
	} else {
		sec.Height = left.Height
	}
	return sec, nil
}

// buildIngredientColumn 排布食材栏：标题 + 圆点行。条目超限先换紧凑字号，
// 仍放不下再整体缩放。空清单排占位文案而不是留白。
func buildIngredientColumn(ts Typesetter, rc *Context, items []recipe.Ingredient, x, y, width, availH float64) (section, error) {
	lines := make([]string, 0, len(items))
	for _, in := range items {
		if d := in.Display(); d != "" {
			lines = append(lines, d)
		}
	}

	baseStyle := rc.styleBody()
	if len(lines) > ingredientLimit {
		baseStyle = rc.styleBodyTight()
	}

	build := func(scale float64) (section, error) {
		var col section
		heading := rc.styleHeading().Scaled(scale)
		st := baseStyle.Scaled(scale)
		cursorY := y

		tb, h, err := layoutText(ts, "Ingredients", x, cursorY, width, heading, "", "nowrap")
		if err != nil {
			return col, fmt.Errorf("排版食材栏标题失败: %w", err)
		}
		col.Texts = append(col.Texts, tb)
		cursorY += h + headingGapBelow

		if len(lines) == 0 {
			st := rc.styleMeta().Scaled(scale)
			tb, h, err := layoutText(ts, noIngredients, x, cursorY, width, st, "", "anywhere")
			if err != nil {
				return col, err
			}
			col.Texts = append(col.Texts, tb)
			cursorY += h
			col.Height = cursorY - y
			return col, nil
		}

		rowGap := Pt(rc.Config.Header.RowGaps.MetaRows) * scale
		for i, line := range lines {
			if i > 0 {
				cursorY += rowGap
			}
			fill := colorAccent
			col.Circles = append(col.Circles, Circle{
				CX:        x + bulletRadius,
				CY:        cursorY + st.LineHeight/2,
				R:         bulletRadius * scale,
				FillColor: &fill,
			})
			tb, h, err := layoutText(ts, line, x+bulletIndent, cursorY, width-bulletIndent, st, "", "anywhere")
			if err != nil {
				return col, fmt.Errorf("排版食材条目失败: %w", err)
			}
			col.Texts = append(col.Texts, tb)
			cursorY += h
		}
		col.Height = cursorY - y
		return col, nil
	}

	return buildShrunk(availH, build)
}

// buildDirectionColumn 排布步骤栏：标题 + “徽章序号 + 步骤文字”行。
// 步骤超限时徽章缩小、字号收紧。
func buildDirectionColumn(ts Typesetter, rc *Context, steps []string, x, y, width, availH float64) (section, error) {
	baseStyle := rc.styleBody()
	baseStyle.LineHeight = Pt(rc.Config.Directions.LineHeight)
	badgeR := badgeRadiusMm
	if len(steps) > instructionLimit {
		baseStyle = rc.styleBodyTight()
		badgeR = badgeRadiusTightMm
	}
	stepGap := Pt(rc.Config.Directions.StepGap)

	build := func(scale float64) (section, error) {
		var col section
		heading := rc.styleHeading().Scaled(scale)
		st := baseStyle.Scaled(scale)
		r := badgeR * scale
		cursorY := y

		tb, h, err := layoutText(ts, "Directions", x, cursorY, width, heading, "", "nowrap")
		if err != nil {
			return col, fmt.Errorf("排版步骤栏标题失败: %w", err)
		}
		col.Texts = append(col.Texts, tb)
		cursorY += h + headingGapBelow

		textX := x + 2*r + bulletIndent/2
		textW := width - (textX - x)
		numStyle := Style{Font: rc.Font(RoleHeading), Size: r * 1.1, LineHeight: 2 * r, Color: colorWhite}

		for i, step := range steps {
			if i > 0 {
				cursorY += stepGap * scale
			}
			fill := colorAccent
			col.Circles = append(col.Circles, Circle{
				CX:        x + r,
				CY:        cursorY + st.LineHeight/2,
				R:         r,
				FillColor: &fill,
			})
			num, _, err := layoutText(ts, strconv.Itoa(i+1), x, cursorY+st.LineHeight/2-numStyle.LineHeight/2, 2*r, numStyle, "center", "nowrap")
			if err != nil {
				return col, err
			}
			col.Texts = append(col.Texts, num)
			tb, h, err := layoutText(ts, step, textX, cursorY, textW, st, "", "anywhere")
			if err != nil {
				return col, fmt.Errorf("排版步骤文字失败: %w", err)
			}
			col.Texts = append(col.Texts, tb)
			if h < 2*r {
				h = 2 * r
			}
			cursorY += h
		}
		col.Height = cursorY - y
		return col, nil
	}

	return buildShrunk(availH, build)
}

// buildShrunk 以给定构建函数做 shrink-to-fit：先按 1.0 构建，超高时
// 二分求最大可行比例并按该比例重建。
func buildShrunk(availH float64, build func(scale float64) (section, error)) (section, error) {
	col, err := build(1.0)
	if err != nil {
		return col, err
	}
	if col.Height <= availH {
		return col, nil
	}
	scale, err := ShrinkToFit(availH, minShrinkScale, func(s float64) (float64, error) {
		c, err := build(s)
		if err != nil {
			return 0, err
		}
		return c.Height, nil
	})
	if err != nil {
		return col, err
	}
	return build(scale)
}
