package common

// Commands routed by the node shell. Each maps to one endpoint of the
// per-node message surface.
const (
	StatusCommand   = "status"
	MessageCommand  = "message"
	StartCommand    = "start"
	StopCommand     = "stop"
	GetStateCommand = "getState"
)

// Response bodies expected by the external driver.
const (
	ResponseLive           = "live"
	ResponseFaulty         = "faulty"
	ResponseMessageOK      = "Message received"
	ResponsePhaseComplete  = "Phase 1 completed"
	ResponseRoundAdvanced  = "Round started"
	ResponseStopped        = "Node stopped"
	ResponseClusterWaiting = "Cluster not ready"
)
