package service

// Service is a long-lived subsystem owned by the viewer process: the audio
// device, the metrics endpoint, snapshot sockets.
//
// A Hub drives every registered Service through Init, Start and Stop.
// Init receives the same argument list for all services; each picks out the
// values whose type it recognizes and ignores the rest.
type Service interface {
	Name() string
	// Dependencies names services that must be initialized and started first.
	Dependencies() []string
	Init(args ...any) error
	Start() error
	// Stop may be called more than once.
	Stop() error
}

// Phase is the lifecycle position of a registered service.
type Phase uint8

const (
	PhaseRegistered Phase = iota
	PhaseInitialized
	PhaseRunning
	PhaseStopped
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseRegistered:
		return "registered"
	case PhaseInitialized:
		return "initialized"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}
