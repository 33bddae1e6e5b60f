package driven

// Notifier reports operation outcomes to the user.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}
