package misc

import (
	"strings"
)

type ConfigLoader struct{}

type runtimeConfig struct {
	verbose         int
	elementWidth    int
	leftMatrixPath  string
	rightMatrixPath string
	outputPath      string
	processes       int
	laneDepth       int
}

var globalConfig = runtimeConfig{
	verbose:         0,
	elementWidth:    32,
	leftMatrixPath:  "mat1",
	rightMatrixPath: "mat2",
	outputPath:      "",
	processes:       0,
	laneDepth:       1,
}

// ConfigureRuntime copies the parsed options into the process-wide runtime config.
func ConfigureRuntime(parser *CommandLineParser) {
	if parser == nil {
		return
	}

	if mode, ok := PlatformModeFromString(parser.StringParameter("platform_mode")); ok {
		SetRuntimePlatformMode(mode)
	}
	if mode, ok := OutputModeFromString(parser.StringParameter("output_mode")); ok {
		SetRuntimeOutputMode(mode)
	}

	globalConfig.verbose = int(parser.IntParameter("verbose"))
	globalConfig.elementWidth = int(parser.IntParameter("element_width"))
	globalConfig.leftMatrixPath = strings.TrimSpace(parser.StringParameter("left_matrix"))
	globalConfig.rightMatrixPath = strings.TrimSpace(parser.StringParameter("right_matrix"))
	globalConfig.outputPath = strings.TrimSpace(parser.StringParameter("output_path"))
	globalConfig.processes = int(parser.IntParameter("processes"))
	globalConfig.laneDepth = int(parser.IntParameter("lane_depth"))
}

func (this *ConfigLoader) Init() {}

func (this *ConfigLoader) Verbose() int {
	return globalConfig.verbose
}

// ElementWidth is the bit width of the signed integers being multiplied.
func (this *ConfigLoader) ElementWidth() int {
	return globalConfig.elementWidth
}

func (this *ConfigLoader) LeftMatrixPath() string {
	return globalConfig.leftMatrixPath
}

func (this *ConfigLoader) RightMatrixPath() string {
	return globalConfig.rightMatrixPath
}

// OutputPath is an optional file that receives a plain copy of the product.
func (this *ConfigLoader) OutputPath() string {
	return globalConfig.outputPath
}

// Processes is the externally assigned process count, 0 to size the group for the mesh.
func (this *ConfigLoader) Processes() int {
	return globalConfig.processes
}

func (this *ConfigLoader) LaneDepth() int {
	return globalConfig.laneDepth
}

func (this *ConfigLoader) PlatformMode() PlatformMode {
	return RuntimePlatformMode()
}

func (this *ConfigLoader) OutputMode() OutputMode {
	return RuntimeOutputMode()
}
