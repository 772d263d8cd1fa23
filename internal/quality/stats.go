package quality

import (
	"math"
	"sort"

	"dqcli/pkg/contracts/domain"
)

// classCounts counts non-missing values per class
func classCounts(values []domain.Value) map[domain.Class]int {
	counts := make(map[domain.Class]int, 2)
	for _, v := range values {
		if c := v.Kind().Class(); c != domain.ClassNone {
			counts[c]++
		}
	}
	return counts
}

// dominantClass returns the class held by a strict majority of the counted
// values. ok is false on a tie or when nothing was counted.
func dominantClass(counts map[domain.Class]int) (domain.Class, bool) {
	total := 0
	for _, n := range counts {
		total += n
	}
	for _, c := range []domain.Class{domain.ClassNumeric, domain.ClassText} {
		if counts[c]*2 > total {
			return c, true
		}
	}
	return domain.ClassNone, false
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev uses the n-1 divisor. Callers ensure len(xs) >= 2.
func sampleStdDev(xs []float64, m float64) float64 {
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func medianAbsDeviation(xs []float64, m float64) float64 {
	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - m)
	}
	return median(devs)
}

// nonFinite counts NaN and infinite values
func nonFinite(xs []float64) int {
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			n++
		}
	}
	return n
}
