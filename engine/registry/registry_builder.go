package registry

// RegistryBuilderOption is a function that modifies the registry configuration
// during construction.
type RegistryBuilderOption func(*resourceRegistry)

// WithTextureBinder sets the external texture binder that receives every
// registered texture view and rebinds on resize. Nil binders are ignored and
// the no-op default is kept.
//
// Parameters:
//   - binder: the binder implementation (typically the inspector's texture table)
//
// Returns:
//   - RegistryBuilderOption: the option to apply
func WithTextureBinder(binder TextureBinder) RegistryBuilderOption {
	return func(r *resourceRegistry) {
		if binder != nil {
			r.binder = binder
		}
	}
}
