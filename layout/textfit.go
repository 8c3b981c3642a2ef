package layout

// Text-fit utilities: truncation to a line budget and shrink-to-fit for
// arbitrary content blocks. Both work on measured typography (real wrapping
// through the Typesetter), never on character counts.

const ellipsis = "…"

// TruncateToLines returns the longest prefix of text whose wrapped height at
// the given style and width stays within maxLines line-heights, appending an
// ellipsis exactly when something was cut. It binary-searches candidate
// prefix lengths (in runes) and re-measures each candidate, so the bound
// holds for proportional fonts too.
func TruncateToLines(ts Typesetter, text string, width float64, st Style, maxLines int) (string, bool, error) {
	if text == "" || maxLines <= 0 {
		return "", false, nil
	}
	budget := float64(maxLines) * st.LineHeight
	// tiny tolerance so a box of exactly N lines is not rejected for float noise
	const eps = 1e-6

	full, err := measureHeight(ts, text, width, st)
	if err != nil {
		return "", false, err
	}
	if full <= budget+eps {
		return text, false, nil
	}

	runes := []rune(text)
	fits := func(n int) (bool, error) {
		candidate := trimTrailingSpace(string(runes[:n])) + ellipsis
		h, err := measureHeight(ts, candidate, width, st)
		if err != nil {
			return false, err
		}
		return h <= budget+eps, nil
	}

	// largest n in [0, len) with fits(n); fits is monotone in n
	lo, hi := 0, len(runes)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		ok, err := fits(mid)
		if err != nil {
			return "", false, err
		}
		if ok {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return trimTrailingSpace(string(runes[:best])) + ellipsis, true, nil
}

func trimTrailingSpace(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last == ' ' || last == '\t' || last == '\n' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}

// ShrinkToFit finds the largest scale in [minScale, 1] at which the measured
// block height fits availHeight. measure is called with a candidate scale and
// returns the block height at that scale. Shrinking is a fallback: callers
// are expected to have degraded typography (tighter styles) first. When even
// minScale does not fit, minScale is returned and the block will clip at its
// floor legibility rather than vanish.
func ShrinkToFit(availHeight, minScale float64, measure func(scale float64) (float64, error)) (float64, error) {
	if minScale <= 0 || minScale > 1 {
		minScale = 0.5
	}
	h, err := measure(1.0)
	if err != nil {
		return 1.0, err
	}
	if h <= availHeight {
		return 1.0, nil
	}
	h, err = measure(minScale)
	if err != nil {
		return minScale, err
	}
	if h > availHeight {
		return minScale, nil
	}
	lo, hi := minScale, 1.0
	best := minScale
	for i := 0; i < 10; i++ {
		mid := (lo + hi) / 2
		h, err := measure(mid)
		if err != nil {
			return best, err
		}
		if h <= availHeight {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	return best, nil
}
