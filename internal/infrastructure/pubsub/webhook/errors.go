package webhookpubsub

import "errors"

var (
	// ErrMissingTopic ...
	ErrMissingTopic = errors.New("missing webhook topic")
	// ErrUnknownTopic ...
	ErrUnknownTopic = errors.New("unknown webhook topic")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint, must be a valid URI")
	// ErrNilEventSource ...
	ErrNilEventSource = errors.New("event source must not be nil")
	// ErrAlreadyStarted ...
	ErrAlreadyStarted = errors.New("webhook service already started")
)
