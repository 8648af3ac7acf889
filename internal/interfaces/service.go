package interfaces

// Service is an outer surface of the daemon exposing the wallet workflow,
// started once at boot and stopped at shutdown.
type Service interface {
	Start() error
	Stop()
}
