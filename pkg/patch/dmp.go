package patch

import (
	"errors"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DMPOption configures the diff-match-patch engine.
type DMPOption func(*diffmatchpatch.DiffMatchPatch)

// WithDiffTimeout bounds the time spent computing a diff.
// Zero means no limit.
func WithDiffTimeout(d time.Duration) DMPOption {
	return func(dmp *diffmatchpatch.DiffMatchPatch) {
		dmp.DiffTimeout = d
	}
}

// WithMatchThreshold sets how strict fuzzy hunk matching is, from 0.0 (exact)
// to 1.0 (anything goes).
func WithMatchThreshold(t float64) DMPOption {
	return func(dmp *diffmatchpatch.DiffMatchPatch) {
		dmp.MatchThreshold = t
	}
}

// DMP is an Engine backed by diff-match-patch.
type DMP struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDMP creates a diff-match-patch engine with library defaults.
func NewDMP(opts ...DMPOption) *DMP {
	dmp := diffmatchpatch.New()
	for _, opt := range opts {
		opt(dmp)
	}
	return &DMP{dmp: dmp}
}

// Make implements Engine.
func (e *DMP) Make(oldText, newText string) (PatchSet, error) {
	if oldText == newText {
		return "", nil
	}
	patches := e.dmp.PatchMake(oldText, newText)
	return PatchSet(e.dmp.PatchToText(patches)), nil
}

// Apply implements Engine.
func (e *DMP) Apply(ps PatchSet, oldText string) (string, []bool, error) {
	if ps.IsEmpty() {
		return oldText, nil, nil
	}
	patches, err := e.dmp.PatchFromText(string(ps))
	if err != nil {
		return oldText, nil, errors.Join(ErrMalformedPatch, err)
	}
	text, applied := e.dmp.PatchApply(patches, oldText)
	return text, applied, nil
}
