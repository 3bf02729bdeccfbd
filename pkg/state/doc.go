// Package state persists the shared key/value document of each session group
// and converts client deltas into patches.
//
// A delta carries new full values. The adapter never writes those values
// directly: for every key it asks the patch engine for a patch from the stored
// value to the submitted one, applies that patch to the stored value and keeps
// the result. The applied patches, not the raw values, are what siblings
// receive, so client mirrors and the server reconcile with one algorithm.
//
// A freshly registered client receives InitialPatches, patches from the empty
// string to every current value, and replays them into an empty mirror with the
// same Replay function it uses for live updates.
package state
