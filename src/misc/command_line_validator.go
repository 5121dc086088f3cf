package misc

import (
	"fmt"
	"os"
	"strings"

	meshErrors "meshmul/src/errors"
)

type CommandLineValidator struct {
	command_line_parser *CommandLineParser
}

func (this *CommandLineValidator) Init(command_line_parser *CommandLineParser) {
	this.command_line_parser = command_line_parser
}

// Validate checks every option before any matrix is read.
func (this *CommandLineValidator) Validate() error {
	verbose := this.command_line_parser.IntParameter("verbose")
	if verbose < 0 || verbose > 2 {
		return invalidOption("verbose", "verbose %d is not in [0, 2]", verbose)
	}

	platform_mode := this.command_line_parser.StringParameter("platform_mode")
	if _, ok := PlatformModeFromString(platform_mode); !ok {
		return invalidOption("platform_mode", "platform_mode %s is not supported", platform_mode)
	}

	output_mode := this.command_line_parser.StringParameter("output_mode")
	if _, ok := OutputModeFromString(output_mode); !ok {
		return invalidOption("output_mode", "output_mode %s is not supported", output_mode)
	}

	switch this.command_line_parser.IntParameter("element_width") {
	case 8, 16, 32, 64:
	default:
		return invalidOption("element_width", "element_width %d is not one of 8, 16, 32, 64",
			this.command_line_parser.IntParameter("element_width"))
	}

	if this.command_line_parser.IntParameter("processes") < 0 {
		return invalidOption("processes", "processes < 0")
	}

	if this.command_line_parser.IntParameter("lane_depth") < 0 {
		return invalidOption("lane_depth", "lane_depth < 0")
	}

	for _, name := range []string{"left_matrix", "right_matrix"} {
		path := strings.TrimSpace(this.command_line_parser.StringParameter(name))
		if path == "" {
			return invalidOption(name, "%s is empty", name)
		}
		if _, stat_err := os.Stat(path); os.IsNotExist(stat_err) {
			return invalidOption(name, "%s %s does not exist", name, path)
		}
	}

	return nil
}

func invalidOption(name string, format string, args ...any) error {
	return meshErrors.New(meshErrors.PhaseConfig, meshErrors.KindInvalidOption).
		Path(name).
		Detail(fmt.Sprintf(format, args...)).
		Build()
}
