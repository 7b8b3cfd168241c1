package reporter

// ActivityReporter defines the fire-and-forget lifecycle notification surface.
// Implementations must never block the caller or surface a delivery failure.
type ActivityReporter interface {
	Report(action string, data map[string]interface{})
}
