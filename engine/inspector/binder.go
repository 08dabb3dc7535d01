// package inspector implements the editing surface of the engine: a stable
// id table exposing registry textures to a UI layer, and edit operations that
// funnel every mutation through the registry.
package inspector

import (
	"sync"

	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/cogentcore/webgpu/wgpu"
)

// binder is the implementation of the Binder interface.
type binder struct {
	mu    sync.Mutex
	next  uint64
	views map[uint64]*wgpu.TextureView
}

// Binder is the registry's TextureBinder plus the read side a UI needs: ids
// stay stable across texture rebuilds, so a UI can hold an id for as long as
// the texture is registered.
type Binder interface {
	registry.TextureBinder

	// View returns the texture view currently behind the id.
	//
	// Parameters:
	//   - id: the id returned by BindTexture
	//
	// Returns:
	//   - *wgpu.TextureView: the current view
	//   - bool: false if the id was never issued
	View(id uint64) (*wgpu.TextureView, bool)
}

var _ Binder = &binder{}

// NewBinder creates an empty Binder. Ids start at 1; 0 is never issued.
//
// Returns:
//   - Binder: the binder
func NewBinder() Binder {
	return &binder{views: map[uint64]*wgpu.TextureView{}}
}

func (b *binder) BindTexture(view *wgpu.TextureView) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.views[b.next] = view
	return b.next
}

func (b *binder) RebindTexture(id uint64, view *wgpu.TextureView) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.views[id]; ok {
		b.views[id] = view
	}
}

func (b *binder) View(id uint64) (*wgpu.TextureView, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	view, ok := b.views[id]
	return view, ok
}
