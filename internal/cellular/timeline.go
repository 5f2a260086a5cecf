package cellular

// Unbounded is the retention value that keeps every generation.
const Unbounded = 0

// Timeline maps generation indexes to states. Indexes always form one
// contiguous range ending at Latest, and new entries may only be appended at
// Latest()+1. With a positive bound only the newest entries are retained.
type Timeline[S any] struct {
	keep   int
	oldest int
	states []S
}

// NewTimeline returns an empty timeline that retains at most keep entries,
// or every entry when keep is Unbounded.
func NewTimeline[S any](keep int) *Timeline[S] {
	if keep < 0 {
		keep = Unbounded
	}
	return &Timeline[S]{keep: keep}
}

// Append stores s at generation Latest()+1, which is 0 for an empty
// timeline, and drops the oldest entry when the bound is exceeded.
func (t *Timeline[S]) Append(s S) {
	t.states = append(t.states, s)
	if t.keep != Unbounded && len(t.states) > t.keep {
		var zero S
		t.states[0] = zero
		t.states = t.states[1:]
		t.oldest++
	}
}

// AppendAt appends s and panics unless gen is exactly Latest()+1.
func (t *Timeline[S]) AppendAt(gen int, s S) {
	if gen != t.Latest()+1 {
		panic(protocolf("timeline append at generation %d, expected %d", gen, t.Latest()+1))
	}
	t.Append(s)
}

// At returns the state recorded for gen. Generations outside the retained
// range, including negative ones, are absent.
func (t *Timeline[S]) At(gen int) (S, bool) {
	var zero S
	if len(t.states) == 0 || gen < t.oldest || gen > t.Latest() {
		return zero, false
	}
	return t.states[gen-t.oldest], true
}

// Latest returns the newest generation index, or -1 if empty.
func (t *Timeline[S]) Latest() int {
	if len(t.states) == 0 {
		return -1
	}
	return t.oldest + len(t.states) - 1
}

// Oldest returns the oldest retained generation index, or -1 if empty.
func (t *Timeline[S]) Oldest() int {
	if len(t.states) == 0 {
		return -1
	}
	return t.oldest
}

// Len returns the number of retained entries.
func (t *Timeline[S]) Len() int { return len(t.states) }

// Keep returns the retention bound.
func (t *Timeline[S]) Keep() int { return t.keep }

// replaceLatest overwrites the head entry. gen must equal Latest().
func (t *Timeline[S]) replaceLatest(gen int, s S) {
	if len(t.states) == 0 || gen != t.Latest() {
		panic(protocolf("timeline overwrite at generation %d, head is %d", gen, t.Latest()))
	}
	t.states[len(t.states)-1] = s
}
