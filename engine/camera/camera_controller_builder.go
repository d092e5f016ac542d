package camera

// ControllerBuilderOption is a functional option applied to a Controller during NewController.
type ControllerBuilderOption func(*controllerImpl)

// WithSensitivityStep sets the initial sensitivity step.
//
// Parameters:
//   - step: a step in [0, SpeedSteps]
//
// Returns:
//   - ControllerBuilderOption: functional option to set the sensitivity step
func WithSensitivityStep(step int) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.sensitivity = step
	}
}

// WithWalkingStep sets the initial walking speed step.
//
// Parameters:
//   - step: a step in [0, SpeedSteps]
//
// Returns:
//   - ControllerBuilderOption: functional option to set the walking speed step
func WithWalkingStep(step int) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.walking = step
	}
}
