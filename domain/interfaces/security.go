package interfaces

// ErrorClassifier decides which collaborator failures are transient, meaning
// the same step may succeed if attempted again.
type ErrorClassifier interface {
	IsTransient(err error) bool
}
