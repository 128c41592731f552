package align

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1]:
// 2·M / T, where M is the total length of matching blocks found by a greedy
// longest-matching-block recursive split and T is the combined length of
// both strings. Comparison is rune-based so multi-byte lyrics score the same
// as ASCII ones.
//
// This mirrors the classic sequence-matcher ratio: ties on block length keep
// the earliest position in a, then the earliest in b.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}
	matched := matchTotal(ar, br, 0, len(ar), 0, len(br))
	return 2 * float64(matched) / float64(total)
}

// matchTotal sums matching block lengths over a[alo:ahi] vs b[blo:bhi] by
// locating the longest common block and recursing on the pieces to its left
// and right.
func matchTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchTotal(a, b, alo, i, blo, j) +
		matchTotal(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest contiguous matching block between
// a[alo:ahi] and b[blo:bhi]. The j2len map tracks, per end position in b,
// the length of the match ending there for the previous row, giving O(n·m)
// time with O(m) space.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
