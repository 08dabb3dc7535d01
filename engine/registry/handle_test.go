package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInsertAndGet(t *testing.T) {
	var store Store[string]

	a := store.Insert("alpha")
	b := store.Insert("beta")

	got, ok := store.Get(a)
	require.True(t, ok)
	assert.Equal(t, "alpha", got)

	got, ok = store.Get(b)
	require.True(t, ok)
	assert.Equal(t, "beta", got)

	assert.Equal(t, 2, store.Len())
}

func TestStoreZeroHandleNeverResolves(t *testing.T) {
	var store Store[string]
	store.Insert("alpha")

	var zero Handle[string]
	assert.True(t, zero.IsZero())

	_, ok := store.Get(zero)
	assert.False(t, ok)
}

func TestStoreRemoveInvalidatesHandle(t *testing.T) {
	var store Store[string]

	h := store.Insert("alpha")
	removed, ok := store.Remove(h)
	require.True(t, ok)
	assert.Equal(t, "alpha", removed)
	assert.Zero(t, store.Len())

	_, ok = store.Get(h)
	assert.False(t, ok)

	_, ok = store.Remove(h)
	assert.False(t, ok)
}

func TestStoreGenerationSafetyAcrossSlotReuse(t *testing.T) {
	var store Store[string]

	stale := store.Insert("old")
	_, ok := store.Remove(stale)
	require.True(t, ok)

	fresh := store.Insert("new")
	assert.NotEqual(t, stale, fresh, "reused slot must issue a different handle")

	_, ok = store.Get(stale)
	assert.False(t, ok, "stale handle must not alias the new occupant")

	got, ok := store.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestStoreHandleIsolationBetweenStores(t *testing.T) {
	var strings Store[string]
	var ints Store[int]

	sh := strings.Insert("alpha")
	ih := ints.Insert(42)

	// Same slot index in both stores, but the handle types differ, so the
	// wrong-store lookup does not compile. What can be checked at runtime is
	// that the handles carry the same slot yet remain distinct values.
	got, ok := strings.Get(sh)
	require.True(t, ok)
	assert.Equal(t, "alpha", got)

	n, ok := ints.Get(ih)
	require.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestStoreItemsSkipsDeadSlots(t *testing.T) {
	var store Store[string]

	a := store.Insert("a")
	b := store.Insert("b")
	c := store.Insert("c")
	_, ok := store.Remove(b)
	require.True(t, ok)

	var handles []Handle[string]
	var values []string
	for h, v := range store.Items() {
		handles = append(handles, h)
		values = append(values, v)
	}

	assert.Equal(t, []Handle[string]{a, c}, handles)
	assert.Equal(t, []string{"a", "c"}, values)
}

func TestStoreItemsEarlyBreak(t *testing.T) {
	var store Store[int]
	for i := range 5 {
		store.Insert(i)
	}

	seen := 0
	for range store.Items() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestStoreReusesFreedSlots(t *testing.T) {
	var store Store[int]

	first := store.Insert(1)
	store.Insert(2)
	_, ok := store.Remove(first)
	require.True(t, ok)

	// The next insert should land in the freed slot rather than growing the
	// arena; verify by iterating and observing only two live entries.
	store.Insert(3)
	assert.Equal(t, 2, store.Len())

	var values []int
	for _, v := range store.Items() {
		values = append(values, v)
	}
	assert.ElementsMatch(t, []int{2, 3}, values)
}
