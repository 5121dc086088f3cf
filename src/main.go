package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"meshmul/src/matrix"
	"meshmul/src/mesh"
	"meshmul/src/misc"
	"meshmul/src/simulator"
	"meshmul/src/simulator/noc"
)

func main() {
	command_line_parser := InitCommandLineParser()
	if err := command_line_parser.Parse(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, command_line_parser.StringifyHelpMsgs())
		atexit.Exit(2)
	}

	if command_line_parser.IsArgSet("help") {
		fmt.Printf("%s", command_line_parser.StringifyHelpMsgs())
		return
	}

	misc.ConfigureRuntime(command_line_parser)

	config_loader := new(misc.ConfigLoader)
	config_loader.Init()

	logger, err := misc.NewLogger(config_loader.Verbose())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Register(func() { _ = logger.Sync() })

	mesh.SetLogger(logger.Named("mesh"))
	noc.SetLogger(logger.Named("noc"))
	simulator.SetLogger(logger.Named("simulator"))

	command_line_validator := new(misc.CommandLineValidator)
	command_line_validator.Init(command_line_parser)
	if err := command_line_validator.Validate(); err != nil {
		fatal(logger, "invalid command line", err)
	}

	logger.Info("options", zap.String("args", command_line_parser.StringifyArgs()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch config_loader.ElementWidth() {
	case 8:
		err = run[int8](ctx, config_loader)
	case 16:
		err = run[int16](ctx, config_loader)
	case 64:
		err = run[int64](ctx, config_loader)
	default:
		err = run[int32](ctx, config_loader)
	}
	if err != nil {
		stop()
		fatal(logger, "multiplication failed", err)
	}

	atexit.Exit(0)
}

func run[T matrix.Element](ctx context.Context, config_loader *misc.ConfigLoader) error {
	left, err := matrix.ParseFile[T](config_loader.LeftMatrixPath(), matrix.HeaderRows)
	if err != nil {
		return err
	}
	right, err := matrix.ParseFile[T](config_loader.RightMatrixPath(), matrix.HeaderColumns)
	if err != nil {
		return err
	}

	simulator_ := new(simulator.Simulator[T])
	defer simulator_.Fini()

	job := &simulator.Job[T]{
		Left:      left,
		Right:     right,
		Processes: config_loader.Processes(),
		LaneDepth: config_loader.LaneDepth(),
	}
	if err := simulator_.Init(ctx, config_loader.PlatformMode(), job); err != nil {
		return err
	}

	for !simulator_.IsFinished() {
		if err := simulator_.Cycle(); err != nil {
			return err
		}
	}

	if err := simulator_.Dump(os.Stdout, styledOutput(config_loader.OutputMode())); err != nil {
		return err
	}

	if output_path := config_loader.OutputPath(); output_path != "" {
		lines, err := simulator_.Lines()
		if err != nil {
			return err
		}

		file_dumper := new(misc.FileDumper)
		file_dumper.Init(output_path)
		if err := file_dumper.WriteLines(lines); err != nil {
			return err
		}
	}
	return nil
}

func styledOutput(mode misc.OutputMode) bool {
	switch mode {
	case misc.OutputModePretty:
		return true
	case misc.OutputModeAuto:
		return term.IsTerminal(int(os.Stdout.Fd()))
	default:
		return false
	}
}

func fatal(logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	atexit.Exit(1)
}

func InitCommandLineParser() *misc.CommandLineParser {
	command_line_parser := new(misc.CommandLineParser)
	command_line_parser.Init()

	// level 0: only prints the product and warnings
	// level 1: level 0 + run progress and traffic totals
	// level 2: level 1 + every round of every unit
	command_line_parser.AddOption(misc.INT, "verbose", "0", "verbosity of the run")

	command_line_parser.AddOption(
		misc.STRING,
		"platform_mode",
		string(misc.DefaultPlatformMode()),
		"execution platform (mesh|systolic)",
	)
	command_line_parser.AddOption(
		misc.STRING,
		"output_mode",
		string(misc.DefaultOutputMode()),
		"product rendering (plain|pretty|auto)",
	)

	command_line_parser.AddOption(misc.INT, "element_width", "32",
		"bit width of the signed matrix elements (8|16|32|64)")

	command_line_parser.AddOption(misc.STRING, "left_matrix", "mat1",
		"left operand file, first line is its row count")
	command_line_parser.AddOption(misc.STRING, "right_matrix", "mat2",
		"right operand file, first line is its column count")
	command_line_parser.AddOption(misc.STRING, "output_path", "",
		"optional file receiving a plain copy of the product")

	command_line_parser.AddOption(misc.INT, "processes", "0",
		"size of the process group, 0 to size it for the mesh")
	command_line_parser.AddOption(misc.INT, "lane_depth", "1",
		"capacity of every lane buffer, 0 for rendezvous sends")

	return command_line_parser
}
