package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/shellwalk/shellcore/signal"
)

func registerArg(t Table) {
	t["arg"] = argBuiltin
}

// argBuiltin implements the declarative `arg` surface (§6.4): each
// call either appends one declaration to this context's ArgRegistry,
// prints help and exits, or (on `--export`) parses the script's
// positional parameters against every declaration accumulated so far,
// binds the results as UPPERCASE_WITH_UNDERSCORES environment
// variables, and clears the registry.
func argBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	if len(args) == 0 {
		return exec.BuiltinResult{Status: signal.Ok(2), Stderr: "arg: usage: arg <declaration>\n"}
	}

	switch args[0] {
	case "--desc":
		if len(args) != 2 {
			return exec.BuiltinResult{Status: signal.Ok(2), Stderr: "arg: --desc requires exactly one argument\n"}
		}
		bc.Sc.ArgRegistryFor().Description = args[1]
		return exec.BuiltinResult{Status: signal.Ok(0)}

	case "-h", "--help":
		reg := bc.Sc.ArgRegistryFor()
		text := formatHelp(reg)
		bc.Sc.ClearArgRegistry()
		return exec.BuiltinResult{Status: signal.Exit(0), Stdout: text}

	case "--export":
		return exportArgs(bc)
	}

	spec, err := parseArgSpec(args)
	if err != "" {
		return exec.BuiltinResult{
			Status: signal.Ok(2),
			Stderr: fmt.Sprintf("arg: %s\nTry 'arg --help' for more information.\n", err),
		}
	}
	reg := bc.Sc.ArgRegistryFor()
	reg.Specs = append(reg.Specs, spec)
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

// parseArgSpec recognizes one declaration form from §6.4: a named
// option/flag (leading `-s`/`--long`) or a positional (leading NAME or
// `[NAME]`), each optionally typed and optionally defaulted.
func parseArgSpec(args []string) (shellcontext.ArgSpec, string) {
	i := 0
	short := ""
	if args[i] == "-s" {
		i++
		if i >= len(args) || !strings.HasPrefix(args[i], "--") {
			return shellcontext.ArgSpec{}, "-s must be followed by --long-name"
		}
	}

	if strings.HasPrefix(args[i], "--") {
		long := strings.TrimPrefix(args[i], "--")
		i++
		if short == "" && args[0] == "-s" {
			short = string(long[0])
		}
		typ, hasType, i2 := takeType(args, i)
		i = i2
		def, hasDefault, i3, err := takeDefault(args, i)
		if err != "" {
			return shellcontext.ArgSpec{}, err
		}
		i = i3
		if i >= len(args) {
			return shellcontext.ArgSpec{}, "missing description"
		}
		desc := args[i]

		kind := shellcontext.ArgBooleanFlag
		if hasType {
			kind = shellcontext.ArgNamedOption
		}
		return shellcontext.ArgSpec{
			Kind: kind, Name: long, Short: short, Type: typ,
			HasDefault: hasDefault, Default: def, Description: desc,
		}, ""
	}

	nameTok := args[i]
	i++
	optional := strings.HasPrefix(nameTok, "[") && strings.HasSuffix(nameTok, "]")
	name := strings.TrimSuffix(strings.TrimPrefix(nameTok, "["), "]")

	typ, hasType, i2 := takeType(args, i)
	if !hasType {
		return shellcontext.ArgSpec{}, "positional argument requires a type"
	}
	i = i2
	def, hasDefault, i3, err := takeDefault(args, i)
	if err != "" {
		return shellcontext.ArgSpec{}, err
	}
	i = i3
	if i >= len(args) {
		return shellcontext.ArgSpec{}, "missing description"
	}
	desc := args[i]

	kind := shellcontext.ArgPositionalRequired
	if optional || hasDefault {
		kind = shellcontext.ArgPositionalOptional
	}
	return shellcontext.ArgSpec{
		Kind: kind, Name: name, Type: typ,
		HasDefault: hasDefault, Default: def, Description: desc,
	}, ""
}

func takeType(args []string, i int) (shellcontext.ArgValueType, bool, int) {
	if i >= len(args) {
		return 0, false, i
	}
	switch args[i] {
	case "string":
		return shellcontext.ArgTypeString, true, i + 1
	case "number":
		return shellcontext.ArgTypeNumber, true, i + 1
	case "boolean":
		return shellcontext.ArgTypeBoolean, true, i + 1
	default:
		return 0, false, i
	}
}

func takeDefault(args []string, i int) (string, bool, int, string) {
	if i >= len(args) || args[i] != "=" {
		return "", false, i, ""
	}
	i++
	if i >= len(args) {
		return "", false, i, "missing default value after '='"
	}
	return args[i], true, i + 1, ""
}

// exportArgs parses the script's current positional parameters
// against the accumulated declarations, binds results as environment
// variables, and clears the registry.
func exportArgs(bc *exec.BuiltinContext) exec.BuiltinResult {
	reg := bc.Sc.ArgRegistryFor()
	raw := currentPositionals(bc.Sc)

	values := map[string]string{}
	for _, s := range reg.Specs {
		if s.Kind == shellcontext.ArgBooleanFlag {
			values[s.Name] = "false"
		} else if s.HasDefault {
			values[s.Name] = s.Default
		}
	}

	var leftover []string
	var errs []string
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		matched := false
		for _, s := range reg.Specs {
			if s.Kind != shellcontext.ArgNamedOption && s.Kind != shellcontext.ArgBooleanFlag {
				continue
			}
			long, short := "--"+s.Name, ""
			if s.Short != "" {
				short = "-" + s.Short
			}
			switch {
			case tok == long || (short != "" && tok == short):
				if s.Kind == shellcontext.ArgBooleanFlag {
					values[s.Name] = "true"
				} else if i+1 < len(raw) {
					i++
					values[s.Name] = raw[i]
				} else {
					errs = append(errs, fmt.Sprintf("missing value for %s", long))
				}
				matched = true
			case strings.HasPrefix(tok, long+"="):
				values[s.Name] = strings.TrimPrefix(tok, long+"=")
				matched = true
			}
			if matched {
				break
			}
		}
		if !matched {
			leftover = append(leftover, tok)
		}
	}

	pidx := 0
	for _, s := range reg.Specs {
		if s.Kind != shellcontext.ArgPositionalRequired && s.Kind != shellcontext.ArgPositionalOptional {
			continue
		}
		if pidx < len(leftover) {
			values[s.Name] = leftover[pidx]
			pidx++
		} else if s.Kind == shellcontext.ArgPositionalRequired {
			errs = append(errs, fmt.Sprintf("missing required argument '%s'", s.Name))
		}
	}

	if len(errs) > 0 {
		bc.Sc.ClearArgRegistry()
		msg := strings.Join(errs, "\n") + "\nTry 'arg --help' for more information.\n"
		return exec.BuiltinResult{Status: signal.Exit(1), Stderr: msg}
	}

	for _, s := range reg.Specs {
		envName := strings.ToUpper(strings.ReplaceAll(s.Name, "-", "_"))
		_ = bc.Sc.SetEnv(envName, values[s.Name])
	}
	bc.Sc.ClearArgRegistry()
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

func currentPositionals(sc *shellcontext.Context) []string {
	count := 0
	if v, ok := sc.GetParam("#"); ok {
		count, _ = strconv.Atoi(v)
	}
	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		v, _ := sc.GetParam(strconv.Itoa(i))
		out = append(out, v)
	}
	return out
}

func formatHelp(reg *shellcontext.ArgRegistry) string {
	var b strings.Builder
	if reg.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", reg.Description)
	}
	b.WriteString("Usage: script")

	var positionals, options []shellcontext.ArgSpec
	for _, s := range reg.Specs {
		switch s.Kind {
		case shellcontext.ArgPositionalRequired:
			fmt.Fprintf(&b, " %s", s.Name)
			positionals = append(positionals, s)
		case shellcontext.ArgPositionalOptional:
			fmt.Fprintf(&b, " [%s]", s.Name)
			positionals = append(positionals, s)
		default:
			options = append(options, s)
		}
	}
	b.WriteString(" [options]\n")

	if len(positionals) > 0 {
		b.WriteString("\nArguments:\n")
		for _, s := range positionals {
			fmt.Fprintf(&b, "  %-20s %s\n", s.Name, s.Description)
		}
	}
	if len(options) > 0 {
		b.WriteString("\nOptions:\n")
		for _, s := range options {
			flag := "--" + s.Name
			if s.Short != "" {
				flag = "-" + s.Short + ", " + flag
			}
			fmt.Fprintf(&b, "  %-20s %s\n", flag, s.Description)
		}
	}
	b.WriteString("\n  -h, --help           show this help message\n")
	return b.String()
}
