package dpcore

// Direction is the traceback code for a linear-gap cell: which predecessor
// produced the cell's M value.
type Direction uint8

const (
	DirDiag Direction = iota
	DirUp
	DirLeft
)

// MSource is the traceback code for an affine-gap cell's M value.
type MSource uint8

const (
	MFromDiag MSource = iota
	MFromH
	MFromV
)

// GapSource distinguishes a gap that just opened from one that extended an
// existing run, for the H and V auxiliary matrices.
type GapSource uint8

const (
	GapOpened GapSource = iota
	GapExtended
)

// linearCell applies the single-matrix recurrence:
// M(i,j) = max(diagM+pairScore, upM+gap, leftM+gap).
// Tie-breaking is fixed: diag beats up beats left.
func linearCell(diagM, upM, leftM, pairScore, gap int) (int, Direction) {
	best := diagM + pairScore
	dir := DirDiag

	if v := upM + gap; v > best {
		best, dir = v, DirUp
	}
	if v := leftM + gap; v > best {
		best, dir = v, DirLeft
	}
	return best, dir
}

// affineCell applies the Gotoh recurrence:
//
//	H(i,j) = max(upM+gapOpen, upH+gapExtend)
//	V(i,j) = max(leftM+gapOpen, leftV+gapExtend)
//	M(i,j) = max(diagM+pairScore, H(i,j), V(i,j))
//
// Tie-breaking is fixed: open beats extend for H and V; diag beats H beats
// V for M.
func affineCell(diagM, upM, upH, leftM, leftV, pairScore, gapOpen, gapExtend int) (m, h, v int, mdir MSource, hdir, vdir GapSource) {
	hOpen := upM + gapOpen
	if hExt := upH + gapExtend; hExt > hOpen {
		h, hdir = hExt, GapExtended
	} else {
		h, hdir = hOpen, GapOpened
	}

	vOpen := leftM + gapOpen
	if vExt := leftV + gapExtend; vExt > vOpen {
		v, vdir = vExt, GapExtended
	} else {
		v, vdir = vOpen, GapOpened
	}

	m, mdir = diagM+pairScore, MFromDiag
	if h > m {
		m, mdir = h, MFromH
	}
	if v > m {
		m, mdir = v, MFromV
	}
	return
}

// borderScore is the cost of a k-symbol run of gaps at a matrix border: 0
// when free, 0 at the origin, and gapOpen+(k-1)*gapExtend otherwise. Linear
// gaps are the gapOpen == gapExtend specialization, giving k*gap.
func borderScore(free bool, k, gapOpen, gapExtend int) int {
	if free || k == 0 {
		return 0
	}
	return gapOpen + (k-1)*gapExtend
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
