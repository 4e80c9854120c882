package assistant

// State is the assistant lifecycle state. Exactly one value is current
// at any moment; every transition fires one state-change notification.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateSpeaking   State = "speaking"
	StateError      State = "error"
)
