package config

import (
	"flag"
	"fmt"
	"strings"
)

// Args summarizes cmd/plog's command-line arguments. Modelled on
// dtail/internal/config/args.go's Args struct and String() idiom.
type Args struct {
	File          string
	Pattern       string
	IgnoreCase    bool
	InvertMatch   bool
	Before        int
	After         int
	NoColor       bool
	Debug         bool
	Quiet         bool
}

func (a *Args) String() string {
	var sb strings.Builder
	sb.WriteString("Args(")
	sb.WriteString(fmt.Sprintf("File:%s,", a.File))
	sb.WriteString(fmt.Sprintf("Pattern:%s,", a.Pattern))
	sb.WriteString(fmt.Sprintf("IgnoreCase:%v,", a.IgnoreCase))
	sb.WriteString(fmt.Sprintf("InvertMatch:%v,", a.InvertMatch))
	sb.WriteString(fmt.Sprintf("Before:%d,", a.Before))
	sb.WriteString(fmt.Sprintf("After:%d,", a.After))
	sb.WriteString(fmt.Sprintf("NoColor:%v,", a.NoColor))
	sb.WriteString(fmt.Sprintf("Debug:%v,", a.Debug))
	sb.WriteString(fmt.Sprintf("Quiet:%v", a.Quiet))
	sb.WriteString(")")
	return sb.String()
}

// ParseArgs parses os.Args-style flags into an Args, clamping scope
// values the same way EngineFacade.SetScope would.
func ParseArgs(fs *flag.FlagSet, arguments []string) (*Args, error) {
	a := &Args{}
	fs.StringVar(&a.Pattern, "pattern", "", "regular expression to filter lines")
	fs.BoolVar(&a.IgnoreCase, "ignore-case", false, "case-insensitive pattern matching")
	fs.BoolVar(&a.InvertMatch, "invert", false, "recorded in Args only; does not change which lines are shown")
	fs.IntVar(&a.Before, "before", 0, "lines of context before each match")
	fs.IntVar(&a.After, "after", 0, "lines of context after each match")
	fs.BoolVar(&a.NoColor, "no-color", false, "disable ANSI colorization")
	fs.BoolVar(&a.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&a.Quiet, "quiet", false, "suppress informational logging")

	if err := fs.Parse(arguments); err != nil {
		return nil, err
	}

	if fs.NArg() < 1 {
		return nil, fmt.Errorf("missing file argument")
	}
	a.File = fs.Arg(0)

	a.transform()
	return a, nil
}

// transform clamps/normalizes parsed arguments, mirroring dtail's
// Args.transformConfig post-processing step.
func (a *Args) transform() {
	if a.Before < 0 {
		a.Before = 0
	}
	if a.After < 0 {
		a.After = 0
	}
	if a.Before > Engine.MaxScopeBefore {
		a.Before = Engine.MaxScopeBefore
	}
	if a.After > Engine.MaxScopeAfter {
		a.After = Engine.MaxScopeAfter
	}
}
