package interfaces

// Service is implemented by every interface exposing the custodian, started
// and stopped by the daemon.
type Service interface {
	Start() error
	Stop()
}
