package dpcore

// ChooseEnd selects the traceback start cell and its score from a Result,
// per the four free-end-gap end-cell rules: right+bottom considers the
// last row and last column, right-only the last column, bottom-only the
// last row, and neither just the corner (n, m). Ties prefer the cell
// closer to (n, m): smaller |(m-j)+(n-i)|, then larger i, then larger j.
func ChooseEnd(res Result, flags FreeEndGaps, m, n int) (i, j, score int) {
	best := func(ci, cj, cscore int, haveBest bool, bi, bj, bscore int) (int, int, int) {
		if !haveBest {
			return ci, cj, cscore
		}
		if cscore > bscore {
			return ci, cj, cscore
		}
		if cscore < bscore {
			return bi, bj, bscore
		}
		cdist := absInt((m-cj) + (n-ci))
		bdist := absInt((m-bj) + (n-bi))
		if cdist < bdist {
			return ci, cj, cscore
		}
		if cdist > bdist {
			return bi, bj, bscore
		}
		if ci != bi {
			if ci > bi {
				return ci, cj, cscore
			}
			return bi, bj, bscore
		}
		if cj > bj {
			return ci, cj, cscore
		}
		return bi, bj, bscore
	}

	haveBest := false
	bi, bj, bscore := n, m, res.CornerScore

	if flags.Bottom {
		for col, v := range res.LastRow {
			if v == negInf {
				continue
			}
			bi, bj, bscore = best(n, col, v, haveBest, bi, bj, bscore)
			haveBest = true
		}
	}
	if flags.Right {
		for row, v := range res.LastCol {
			if v == negInf {
				continue
			}
			bi, bj, bscore = best(row, m, v, haveBest, bi, bj, bscore)
			haveBest = true
		}
	}
	if !flags.Bottom && !flags.Right {
		return n, m, res.CornerScore
	}
	return bi, bj, bscore
}
