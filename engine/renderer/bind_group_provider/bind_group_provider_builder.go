package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption[G any] func(*bindGroupProvider[G])

// WithRelease sets how evicted bind groups are released.
//
// Parameters:
//   - release: called once for every group leaving the cache
//
// Returns:
//   - BindGroupProviderOption[G]: a function that sets the release hook for this provider
func WithRelease[G any](release func(G)) BindGroupProviderOption[G] {
	return func(p *bindGroupProvider[G]) {
		p.release = release
	}
}
