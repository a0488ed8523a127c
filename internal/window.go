package internal

// DefaultMaxBlocks caps the number of match blocks shown for one source.
const DefaultMaxBlocks = 1000

// Range is a half-open line range [Start, End).
type Range struct {
	Start int
	End   int
}

// Block is what gets displayed for one match: the lines of its context window
// that were not already shown by an earlier block.
type Block struct {
	Match     int
	Lines     []int
	Separator bool // a "---" goes before this block
}

// Plan is the display layout for one source.
type Plan struct {
	Blocks    []Block
	Truncated bool
}

func window(i, radius, total int) Range {
	return Range{Start: max(0, i-radius), End: min(total, i+1+radius)}
}

// PlanWindows lays out context windows for matches (ascending line indices).
// Each line is emitted at most once. A separator is placed only between
// windows that neither overlap nor touch. Planning stops after maxBlocks
// blocks (0 means no cap); if matches remain the plan is truncated.
func PlanWindows(matches []int, radius, total, maxBlocks int) Plan {
	var plan Plan
	if radius < 0 {
		radius = 0
	}
	printed := make([]bool, total)
	last := -1
	for n, i := range matches {
		if maxBlocks > 0 && n >= maxBlocks {
			plan.Truncated = true
			break
		}
		w := window(i, radius, total)
		b := Block{Match: i, Separator: last >= 0 && w.Start > last+1}
		for l := w.Start; l < w.End; l++ {
			if printed[l] {
				continue
			}
			printed[l] = true
			b.Lines = append(b.Lines, l)
			last = l
		}
		plan.Blocks = append(plan.Blocks, b)
	}
	return plan
}

// MergeWindows returns the merged, ordered line ranges covered by the
// context windows of matches.
func MergeWindows(matches []int, radius, total int) []Range {
	var out []Range
	for _, b := range PlanWindows(matches, radius, total, 0).Blocks {
		for _, l := range b.Lines {
			if n := len(out); n > 0 && !b.Separator && out[n-1].End >= l {
				out[n-1].End = l + 1
				continue
			}
			out = append(out, Range{Start: l, End: l + 1})
			b.Separator = false
		}
	}
	return out
}
