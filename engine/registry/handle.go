// package registry implements the typed-handle resource registry: generational
// slot stores for shaders, textures, uniforms, and bind groups, plus the
// declarative bind group resolver that dereferences handles into live GPU
// bindings.
package registry

import "iter"

// Handle is an opaque generational reference into a Store. The type parameter
// ties a handle to the store kind it was issued from, so a shader handle can
// never be passed to a texture lookup — the compiler rejects it.
//
// The zero Handle never resolves: generations start at 1.
type Handle[T any] struct {
	slot       uint32
	generation uint32
}

// IsZero reports whether the handle is the zero value (never issued by a store).
//
// Returns:
//   - bool: true if the handle was not issued by any store
func (h Handle[T]) IsZero() bool {
	return h.generation == 0
}

// slotEntry is one arena slot. A slot is dead between Remove and the next
// Insert that reuses it; its generation survives so stale handles miss.
type slotEntry[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Store is a generational slot map. Insert never fails, Get and Remove reject
// stale or foreign handles, and iteration order is slot order (stable between
// mutations, unspecified across insert/remove).
//
// The zero value is ready to use.
type Store[T any] struct {
	slots []slotEntry[T]
	free  []uint32
	count int
}

// Insert adds a value to the store and returns its handle, reusing a freed
// slot when one is available.
//
// Parameters:
//   - value: the value to store
//
// Returns:
//   - Handle[T]: the handle for later lookups
func (s *Store[T]) Insert(value T) Handle[T] {
	s.count++

	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]
		entry := &s.slots[slot]
		entry.value = value
		entry.live = true
		return Handle[T]{slot: slot, generation: entry.generation}
	}

	s.slots = append(s.slots, slotEntry[T]{value: value, generation: 1, live: true})
	return Handle[T]{slot: uint32(len(s.slots) - 1), generation: 1}
}

// Get looks up a value by handle.
//
// Parameters:
//   - handle: the handle to resolve
//
// Returns:
//   - T: the stored value, or the zero value on a miss
//   - bool: false for out-of-range slots, dead slots, or generation mismatches
func (s *Store[T]) Get(handle Handle[T]) (T, bool) {
	var zero T
	if int(handle.slot) >= len(s.slots) {
		return zero, false
	}
	entry := &s.slots[handle.slot]
	if !entry.live || entry.generation != handle.generation {
		return zero, false
	}
	return entry.value, true
}

// Remove deletes a value by handle, bumping the slot's generation so every
// outstanding handle to it becomes stale. The freed slot is reused by later
// inserts under the new generation.
//
// Parameters:
//   - handle: the handle to remove
//
// Returns:
//   - T: the removed value, or the zero value on a miss
//   - bool: false if the handle did not resolve
func (s *Store[T]) Remove(handle Handle[T]) (T, bool) {
	var zero T
	if int(handle.slot) >= len(s.slots) {
		return zero, false
	}
	entry := &s.slots[handle.slot]
	if !entry.live || entry.generation != handle.generation {
		return zero, false
	}

	value := entry.value
	entry.value = zero
	entry.live = false
	entry.generation++
	s.free = append(s.free, handle.slot)
	s.count--
	return value, true
}

// Len returns the number of live entries.
//
// Returns:
//   - int: live entry count
func (s *Store[T]) Len() int {
	return s.count
}

// Items iterates live (handle, value) pairs in slot order.
//
// Returns:
//   - iter.Seq2[Handle[T], T]: the iterator
func (s *Store[T]) Items() iter.Seq2[Handle[T], T] {
	return func(yield func(Handle[T], T) bool) {
		for slot := range s.slots {
			entry := &s.slots[slot]
			if !entry.live {
				continue
			}
			if !yield(Handle[T]{slot: uint32(slot), generation: entry.generation}, entry.value) {
				return
			}
		}
	}
}
