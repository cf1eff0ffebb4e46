package catalogcmd

// FeatureGates exposes runtime feature toggles required by catalog command handlers.
// Callers can supply closures that read from backoffice.Config to keep the handlers
// decoupled from configuration packages while still honouring feature flags.
type FeatureGates struct {
	// SchedulingEnabled should return true when catalog scheduling features are enabled.
	SchedulingEnabled func() bool
}

func (g FeatureGates) schedulingEnabled() bool {
	if g.SchedulingEnabled == nil {
		return true
	}
	return g.SchedulingEnabled()
}
