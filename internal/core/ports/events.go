package ports

// Event is a notification about a change of the wallet workflow state.
type Event struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// EventPublisher ...
type EventPublisher interface {
	Publish(event Event)
}
