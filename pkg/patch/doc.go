// Package patch provides the text patch engine used to reconcile shared state.
//
// An Engine turns two versions of a string into an opaque, serializable PatchSet
// and applies a PatchSet to a base text. Applying a PatchSet to a base that has
// diverged from the one it was computed against still yields a best-effort
// merged text together with a success flag per hunk; it never fails on fuzz.
//
// The default implementation, DMP, is backed by github.com/sergi/go-diff, the Go
// port of Neil Fraser's diff-match-patch library. PatchSets use its textual patch
// format, so they travel as plain JSON strings on the wire.
//
// # Usage
//
//	engine := patch.NewDMP()
//
//	ps, err := engine.Make("", "Hello")
//	if err != nil {
//	    // handle error
//	}
//
//	text, applied, err := engine.Apply(ps, "")
//	// text == "Hello", applied == []bool{true}
package patch
