package reactive

import "reflect"

// same reports whether a and b are the same value for change detection.
//
// Values of different dynamic types always differ. Comparable values use ==
// (pointer identity for *Object). Non-comparable values (maps, slices, funcs)
// always differ, so assigning a fresh mapping is always a change.
func same(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	// Structs and arrays of interfaces are comparable by type but may panic
	// at runtime when the dynamic values are not.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
