package seqkit

// GapMode controls how a margin (the leading or trailing edge of the
// alignment) treats gaps opened at that margin.
type GapMode int

const (
	// GapFree means prefix/suffix gaps on this margin are not penalized.
	GapFree GapMode = iota
	// GapPenalize means prefix/suffix gaps on this margin cost the normal
	// gap-open/gap-extend penalty.
	GapPenalize
	// GapForbid makes a margin gap prohibitively expensive, so the
	// optimal alignment avoids it whenever an alternative exists.
	GapForbid
)

// ScoreMatrix is a symmetric substitution matrix over a fixed alphabet,
// including entries for a wildcard symbol and for the stop/termination
// symbol '*'.
type ScoreMatrix struct {
	index map[byte]int
	score [][]int
}

// NewScoreMatrix builds a symmetric identity-style scoring matrix: any
// symbol matched against itself scores `match`, any other pairing scores
// `mismatch`, except that `wildcard` always scores `wildcardScore` against
// anything (including itself) and '*' only scores `match` against another
// '*' and `termMismatch` against everything else (including the wildcard).
func NewScoreMatrix(alphabet string, match, mismatch, wildcardScore, termMismatch int, wildcard byte) *ScoreMatrix {
	symbols := []byte(alphabet)
	hasWildcard := false
	hasTerm := false
	for _, s := range symbols {
		if s == wildcard {
			hasWildcard = true
		}
		if s == '*' {
			hasTerm = true
		}
	}
	if !hasWildcard {
		symbols = append(symbols, wildcard)
	}
	if !hasTerm {
		symbols = append(symbols, '*')
	}

	index := make(map[byte]int, len(symbols))
	for i, s := range symbols {
		index[s] = i
	}

	n := len(symbols)
	scores := make([][]int, n)
	for i := range scores {
		scores[i] = make([]int, n)
	}

	for i, a := range symbols {
		for j, b := range symbols {
			switch {
			case a == '*' || b == '*':
				if a == '*' && b == '*' {
					scores[i][j] = match
				} else {
					scores[i][j] = termMismatch
				}
			case a == wildcard || b == wildcard:
				scores[i][j] = wildcardScore
			case a == b:
				scores[i][j] = match
			default:
				scores[i][j] = mismatch
			}
		}
	}

	return &ScoreMatrix{index: index, score: scores}
}

// Score returns S[a,b], the substitution score between two symbols.
// Symbols absent from the matrix score as a mismatch against everything.
func (m *ScoreMatrix) Score(a, b byte) int {
	ia, aok := m.index[a]
	ib, bok := m.index[b]
	if !aok || !bok {
		return m.mismatchFallback()
	}
	return m.score[ia][ib]
}

func (m *ScoreMatrix) mismatchFallback() int {
	// Any two distinct, unknown symbols: use the matrix's own worst
	// recorded off-diagonal score as a conservative mismatch value.
	worst := 0
	for i, row := range m.score {
		for j, v := range row {
			if i != j && v < worst {
				worst = v
			}
		}
	}
	return worst
}

// Alignment is the result of a global alignment: the two gapped
// sequences (equal length) and the optimal score.
type Alignment struct {
	Score int
	A     string
	B     string
}

const forbidFactor = 1_000_000

// Align performs gap-affine Needleman-Wunsch global alignment of a
// against b using score matrix s, gap-open and gap-extend penalties
// (both positive), and independent margin modes for the left (start) and
// right (end) of the alignment, per spec §4.1.
//
// Three score layers (match, insertion, deletion) are maintained plus a
// traceback-direction layer. Tie-break order favors, on equal score,
// match over deletion over insertion (evaluated in the order insertion,
// deletion, match with "greater-or-equal" replacement, so the
// last-evaluated candidate wins ties) — this preserves the source
// engine's historical tie-break behavior.
func Align(a, b string, s *ScoreMatrix, open, extend int, leftMode, rightMode GapMode) Alignment {
	n, m := len(a), len(b)

	const negInf = -(1 << 30)

	align := make([][]int, n+1)
	ins := make([][]int, n+1) // best score ending with a gap in b (consumes a)
	del := make([][]int, n+1) // best score ending with a gap in a (consumes b)
	dir := make([][]byte, n+1) // 'I', 'D', 'M' — direction used to reach align[i][j]
	for i := range align {
		align[i] = make([]int, m+1)
		ins[i] = make([]int, m+1)
		del[i] = make([]int, m+1)
		dir[i] = make([]byte, m+1)
	}

	marginCost := func(mode GapMode, k int) int {
		switch mode {
		case GapFree:
			return 0
		case GapForbid:
			return -open * forbidFactor
		default: // GapPenalize
			if k <= 0 {
				return 0
			}
			return -open - (k-1)*extend
		}
	}

	align[0][0] = 0
	for i := 1; i <= n; i++ {
		ins[i][0] = marginCost(leftMode, i)
		align[i][0] = ins[i][0]
		del[i][0] = negInf
		dir[i][0] = 'I'
	}
	for j := 1; j <= m; j++ {
		del[0][j] = marginCost(leftMode, j)
		align[0][j] = del[0][j]
		ins[0][j] = negInf
		dir[0][j] = 'D'
	}

	// gapCost returns the (open, extend) penalty pair to use for a gap
	// step, honoring rightMode when the step lies along the trailing
	// margin (the last column for insertions, the last row for
	// deletions) instead of the default open/extend.
	gapCost := func(onRightMargin bool) (openP, extendP int) {
		if !onRightMargin {
			return open, extend
		}
		switch rightMode {
		case GapFree:
			return 0, 0
		case GapForbid:
			return open * forbidFactor, extend * forbidFactor
		default:
			return open, extend
		}
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			matchScore := align[i-1][j-1] + s.Score(a[i-1], b[j-1])

			insOpen, insExtend := gapCost(j == m)
			insScore := align[i-1][j] - insOpen
			if cand := ins[i-1][j] - insExtend; cand > insScore {
				insScore = cand
			}

			delOpen, delExtend := gapCost(i == n)
			delScore := align[i][j-1] - delOpen
			if cand := del[i][j-1] - delExtend; cand > delScore {
				delScore = cand
			}

			ins[i][j] = insScore
			del[i][j] = delScore

			best := insScore
			d := byte('I')
			if delScore >= best {
				best = delScore
				d = 'D'
			}
			if matchScore >= best {
				best = matchScore
				d = 'M'
			}
			align[i][j] = best
			dir[i][j] = d
		}
	}

	gappedA, gappedB := traceback(a, b, dir)
	return Alignment{Score: align[n][m], A: gappedA, B: gappedB}
}

func traceback(a, b string, dir [][]byte) (string, string) {
	i, j := len(a), len(b)
	bufA := make([]byte, 0, len(a)+len(b))
	bufB := make([]byte, 0, len(a)+len(b))

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && dir[i][j] == 'M':
			bufA = append(bufA, a[i-1])
			bufB = append(bufB, b[j-1])
			i--
			j--
		case i > 0 && (j == 0 || dir[i][j] == 'I'):
			bufA = append(bufA, a[i-1])
			bufB = append(bufB, '-')
			i--
		default:
			bufA = append(bufA, '-')
			bufB = append(bufB, b[j-1])
			j--
		}
	}

	reverseBytes(bufA)
	reverseBytes(bufB)
	return string(bufA), string(bufB)
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
