package event

// EventType identifies a view event
type EventType int

const (
	// EventNodeSelected signals a click on a node hit-volume
	// Trigger: interaction machine entering drill-down
	// Consumer: transport publisher, audio | Payload: *NodeSelectedPayload
	EventNodeSelected EventType = iota + 1

	// EventPositionConfigure asks an external surface to configure a grid position
	// Trigger: click on a sub-grid point
	// Consumer: transport publisher | Payload: *PositionConfigurePayload
	EventPositionConfigure

	// EventDrillDownExit signals return to the main graph
	// Trigger: click missing every grid point | Payload: *DrillDownExitPayload
	EventDrillDownExit

	// EventFormDropped signals a newly ingested form
	// Trigger: View.DropForm | Payload: *FormDroppedPayload
	EventFormDropped

	// EventFormRemoved signals removal of a dropped form
	// Trigger: View.RemoveForm | Payload: *FormRemovedPayload
	EventFormRemoved

	// EventEnvironmentChanged signals structured mode selection or idle fallback
	// Trigger: View.SetEnvironment | Payload: *EnvironmentChangedPayload
	EventEnvironmentChanged

	// EventNCFGWritten signals a stored configuration
	// Trigger: View.Configure | Payload: *NCFGWrittenPayload
	EventNCFGWritten

	// EventHoverChanged signals a new hover target; empty ID means none
	// Consumer: audio | Payload: *HoverChangedPayload
	EventHoverChanged
)

var typeNames = map[EventType]string{
	EventNodeSelected:       "node_selected",
	EventPositionConfigure:  "position_configure",
	EventDrillDownExit:      "drill_down_exit",
	EventFormDropped:        "form_dropped",
	EventFormRemoved:        "form_removed",
	EventEnvironmentChanged: "environment_changed",
	EventNCFGWritten:        "ncfg_written",
	EventHoverChanged:       "hover_changed",
}

func (t EventType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseType maps a wire name back to its EventType
func ParseType(name string) (EventType, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Event is a queued message
type Event struct {
	Type    EventType
	Payload any
	Frame   uint64
}
