package state

import (
	"errors"

	"github.com/dmitrymomot/wavesync/pkg/patch"
)

// Replay applies patches to mirror in place, the way every receiver of a state
// message does. A nil entry removes the key. A patch that cannot be decoded
// leaves its key untouched; the remaining keys are still applied and the
// failures are returned joined.
func Replay(engine patch.Engine, mirror SharedState, patches patch.Patches) error {
	var errs []error
	for key, ps := range patches {
		if ps == nil {
			delete(mirror, key)
			continue
		}
		text, _, err := engine.Apply(*ps, mirror[key])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mirror[key] = text
	}
	return errors.Join(errs...)
}
