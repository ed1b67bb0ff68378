package serialize

import (
	"github.com/arloliu/flatbin/errs"
	"github.com/cockroachdb/errors"
)

// The object offset cache maps an object's identity to the offset where it was written
// during the current pass. Identity is the pointer, never the value: two distinct
// objects with equal fields are written twice, while two references to the same object
// share one encoded copy. Pointers to distinct zero-size values may compare equal in Go
// and must not be used as cache keys.

// LookupObject returns the offset at which obj was already written during the pass.
func LookupObject[T any](c *Context, obj *T) (int, bool) {
	if obj == nil {
		return 0, false
	}

	offset, ok := c.objectOffsets[obj]

	return offset, ok
}

// StoreObject records that obj was written at offset.
//
// Returns errs.ErrNilReference if obj is nil.
func StoreObject[T any](c *Context, obj *T, offset int) error {
	if obj == nil {
		return errors.Wrap(errs.ErrNilReference, "store object offset")
	}

	c.objectOffsets[obj] = offset

	return nil
}

// WriteObject returns the cached offset of obj, or writes it with write and caches the
// resulting offset.
//
// Example:
//
//	off, err := serialize.WriteObject(ctx, monster.Weapon, func(wp *Weapon) (int, error) {
//	    return writeWeapon(w, buf, wp, ctx)
//	})
func WriteObject[T any](c *Context, obj *T, write func(*T) (int, error)) (int, error) {
	if obj == nil {
		return 0, errors.Wrap(errs.ErrNilReference, "write object")
	}

	if offset, ok := c.objectOffsets[obj]; ok {
		return offset, nil
	}

	offset, err := write(obj)
	if err != nil {
		return 0, err
	}
	c.objectOffsets[obj] = offset

	return offset, nil
}

// ObjectCount returns the number of objects recorded in the identity cache.
func (c *Context) ObjectCount() int {
	return len(c.objectOffsets)
}
