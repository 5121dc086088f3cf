package misc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OptionType is the value type of a command line option.
type OptionType int

const (
	INT OptionType = iota
	STRING
)

type option struct {
	option_type   OptionType
	name          string
	default_value string
	help_msg      string
}

// CommandLineParser holds the options a binary understands and the values of one
// invocation. Options are given as --name=value or --name value.
type CommandLineParser struct {
	options    map[string]*option
	order      []string
	args       []string
	parameters map[string]string
	set        map[string]bool
}

func (this *CommandLineParser) Init() {
	this.options = make(map[string]*option)
	this.order = make([]string, 0)
	this.args = make([]string, 0)
	this.parameters = make(map[string]string)
	this.set = make(map[string]bool)

	this.AddOption(STRING, "help", "", "print this message")
}

func (this *CommandLineParser) AddOption(
	option_type OptionType,
	name string,
	default_value string,
	help_msg string,
) {
	if _, exists := this.options[name]; exists {
		panic(fmt.Sprintf("option %s is already registered", name))
	}

	this.options[name] = &option{
		option_type:   option_type,
		name:          name,
		default_value: default_value,
		help_msg:      help_msg,
	}
	this.order = append(this.order, name)
	this.parameters[name] = default_value
}

// Parse reads os.Args style arguments; args[0] is the program name.
func (this *CommandLineParser) Parse(args []string) error {
	if len(args) > 0 {
		this.args = append(this.args, args[1:]...)
	}

	for i := 0; i < len(this.args); i++ {
		arg := this.args[i]
		if arg == "-h" || arg == "--help" {
			this.set["help"] = true
			continue
		}
		if !strings.HasPrefix(arg, "--") {
			return fmt.Errorf("unexpected argument %s", arg)
		}

		name, value, has_value := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		opt, ok := this.options[name]
		if !ok {
			return fmt.Errorf("unknown option --%s", name)
		}
		if !has_value {
			if i+1 >= len(this.args) {
				return fmt.Errorf("option --%s needs a value", name)
			}
			i++
			value = this.args[i]
		}
		if opt.option_type == INT {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				return fmt.Errorf("option --%s expects an integer, got %q", name, value)
			}
		}

		this.parameters[name] = value
		this.set[name] = true
	}
	return nil
}

func (this *CommandLineParser) IsArgSet(name string) bool {
	return this.set[name]
}

func (this *CommandLineParser) IntParameter(name string) int64 {
	opt := this.lookup(name)
	if opt.option_type != INT {
		panic(fmt.Sprintf("option %s is not an integer option", name))
	}

	value, err := strconv.ParseInt(this.parameters[name], 10, 64)
	if err != nil {
		panic(err)
	}
	return value
}

func (this *CommandLineParser) StringParameter(name string) string {
	opt := this.lookup(name)
	if opt.option_type != STRING {
		panic(fmt.Sprintf("option %s is not a string option", name))
	}
	return this.parameters[name]
}

func (this *CommandLineParser) lookup(name string) *option {
	opt, ok := this.options[name]
	if !ok {
		panic(fmt.Sprintf("option %s is not registered", name))
	}
	return opt
}

func (this *CommandLineParser) StringifyHelpMsgs() string {
	var b strings.Builder
	b.WriteString("usage: meshmul [--option=value ...]\n\n")
	for _, name := range this.order {
		opt := this.options[name]
		if name == "help" {
			fmt.Fprintf(&b, "  --%-16s %s\n", name, opt.help_msg)
			continue
		}
		fmt.Fprintf(&b, "  --%-16s %s (default %q)\n", name, opt.help_msg, opt.default_value)
	}
	return b.String()
}

func (this *CommandLineParser) StringifyArgs() string {
	return strings.Join(this.args, " ")
}

// StringifyOptions renders every effective option value, sorted by name.
func (this *CommandLineParser) StringifyOptions() string {
	names := make([]string, 0, len(this.parameters))
	for name := range this.parameters {
		if name != "help" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+"="+this.parameters[name])
	}
	return strings.Join(lines, "\n")
}
