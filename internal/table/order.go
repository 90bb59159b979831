package table

// InsertionIndex returns the leftmost index at which candidate can be
// inserted into the sorted sequence without breaking the ordering defined by
// cmp. Equal elements keep their relative position: the candidate lands
// before the first equal element. Binary search, no side effects.
func InsertionIndex[T any](seq []T, candidate T, cmp func(a, b T) int) int {
	low, high := 0, len(seq)
	for low < high {
		mid := int(uint(low+high) >> 1)
		if cmp(seq[mid], candidate) < 0 {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// CompareRows orders rows by their display rank.
func CompareRows(a, b Row) int { return compareOrder(a.Order, b.Order) }

// CompareColumns orders columns by their display rank.
func CompareColumns(a, b Column) int { return compareOrder(a.Order, b.Order) }

func compareOrder(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NextOrder returns an order rank placing a new row after every existing one.
func NextOrder(rows []Row) float64 {
	if len(rows) == 0 {
		return 1
	}
	return rows[len(rows)-1].Order + 1
}

// OrderBetween returns a rank strictly between lo and hi. The second return
// is false once the interval can no longer be halved distinguishably in
// float64; the caller is expected to renumber and retry.
func OrderBetween(lo, hi float64) (float64, bool) {
	mid := lo + (hi-lo)/2
	return mid, mid > lo && mid < hi
}
