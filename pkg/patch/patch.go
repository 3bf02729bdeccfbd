package patch

// PatchSet is an edit script that transforms one text into another.
// The zero value is an empty patch set and applies as identity.
type PatchSet string

// IsEmpty reports whether the patch set carries no hunks.
func (p PatchSet) IsEmpty() bool {
	return p == ""
}

// Engine computes and applies patch sets.
// Implementations must be safe for concurrent use.
type Engine interface {
	// Make returns the patch set transforming oldText into newText.
	Make(oldText, newText string) (PatchSet, error)

	// Apply applies ps to oldText and returns the resulting text with one
	// success flag per hunk. A failed hunk does not fail the call: the returned
	// text is the best-effort merge.
	Apply(ps PatchSet, oldText string) (string, []bool, error)
}

// AllApplied reports whether every hunk was applied cleanly.
func AllApplied(results []bool) bool {
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}

// Patches maps keys to the patch set that produced their new value.
// A nil entry means the key was deleted and must be removed, not patched.
type Patches map[string]*PatchSet

// Deleted reports whether key is present in p as a deletion.
func (p Patches) Deleted(key string) bool {
	ps, ok := p[key]
	return ok && ps == nil
}
