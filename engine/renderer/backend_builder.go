package renderer

// BackendBuilderOption is a functional option applied to the wgpu backend during construction
// via NewBackend.
type BackendBuilderOption func(*wgpuBackend)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - BackendBuilderOption: a function that applies the present mode option to a backend
func WithPresentMode(mode PresentMode) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. The default is MSAA4x.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - BackendBuilderOption: a function that applies the MSAA option to a backend
func WithMSAA(count MSAASampleCount) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - BackendBuilderOption: a function that applies the option to a backend
func WithForceSoftwareRenderer(force bool) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.forceFallbackAdapter = force
	}
}

// WithClearColor sets the color the frame is cleared to.
//
// Parameters:
//   - r, g, b, a: the clear color components in [0, 1]
//
// Returns:
//   - BackendBuilderOption: a function that applies the clear color option to a backend
func WithClearColor(r, g, b, a float64) BackendBuilderOption {
	return func(w *wgpuBackend) {
		w.clearColor = [4]float64{r, g, b, a}
	}
}

// WithUniformRingSize sets the size of the per-frame uniform ring that every draw's uniform
// block is copied into. It bounds the number of draws per frame.
//
// Parameters:
//   - size: the ring size in bytes
//
// Returns:
//   - BackendBuilderOption: a function that applies the ring size option to a backend
func WithUniformRingSize(size uint64) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.ringSize = size
	}
}
