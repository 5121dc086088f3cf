package misc

// PlatformMode selects how the mesh is executed. Additional modes can be added as new
// execution back ends are integrated.
type PlatformMode string

const (
	// PlatformModeMesh runs one goroutine per compute unit exchanging values over lanes.
	PlatformModeMesh PlatformMode = "mesh"
	// PlatformModeSystolic steps every unit in lockstep, one round per cycle.
	PlatformModeSystolic PlatformMode = "systolic"
)

// DefaultPlatformMode returns the mode used when no explicit selection is made.
func DefaultPlatformMode() PlatformMode {
	return PlatformModeMesh
}

// PlatformModeFromString converts an arbitrary string into a PlatformMode. When
// the provided value is unknown the bool return will be false.
func PlatformModeFromString(value string) (PlatformMode, bool) {
	switch value {
	case string(PlatformModeMesh):
		return PlatformModeMesh, true
	case string(PlatformModeSystolic):
		return PlatformModeSystolic, true
	default:
		return "", false
	}
}

// OutputMode selects how the product is rendered.
type OutputMode string

const (
	OutputModePlain  OutputMode = "plain"
	OutputModePretty OutputMode = "pretty"
	// OutputModeAuto renders pretty output only when stdout is a terminal.
	OutputModeAuto OutputMode = "auto"
)

func DefaultOutputMode() OutputMode {
	return OutputModePlain
}

func OutputModeFromString(value string) (OutputMode, bool) {
	switch value {
	case string(OutputModePlain):
		return OutputModePlain, true
	case string(OutputModePretty):
		return OutputModePretty, true
	case string(OutputModeAuto):
		return OutputModeAuto, true
	default:
		return "", false
	}
}
