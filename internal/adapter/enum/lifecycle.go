package enum

// Lifecycle is the process-wide state of the bridge.
type Lifecycle uint8

const (
	LifecycleCreated Lifecycle = iota
	LifecycleLoggingIn
	LifecycleReady
	LifecycleShuttingDown
	LifecycleStopped
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleCreated:
		return "created"
	case LifecycleLoggingIn:
		return "logging_in"
	case LifecycleReady:
		return "ready"
	case LifecycleShuttingDown:
		return "shutting_down"
	case LifecycleStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
