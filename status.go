package modkit

// ModuleStatus is the lifecycle state shared by a Module and its ModuleWrapper.
//
//	created -> setup -> enabled -> disabled -> destroyed
//
// No transition skips a state or goes back; destroyed is terminal.
type ModuleStatus string

const (
	ModuleCreated   ModuleStatus = "created"
	ModuleSetup     ModuleStatus = "setup"
	ModuleEnabled   ModuleStatus = "enabled"
	ModuleDisabled  ModuleStatus = "disabled"
	ModuleDestroyed ModuleStatus = "destroyed"
)

func (s ModuleStatus) String() string { return string(s) }

// AppStatus is the lifecycle state of an App.
//
//	created -> resolved -> setup -> started -> stopped
//
// A stopped app may be resolved again, but its modules never leave
// disabled or destroyed, so setting it up again fails.
type AppStatus string

const (
	AppCreated  AppStatus = "created"
	AppResolved AppStatus = "resolved"
	AppSetup    AppStatus = "setup"
	AppStarted  AppStatus = "started"
	AppStopped  AppStatus = "stopped"
)

func (s AppStatus) String() string { return string(s) }

// Phase names one orchestrated lifecycle phase.
type Phase string

const (
	PhaseResolve Phase = "resolve"
	PhaseSetup   Phase = "setup"
	PhaseStart   Phase = "start"
	PhaseStop    Phase = "stop"
	PhaseDestroy Phase = "destroy"
)
