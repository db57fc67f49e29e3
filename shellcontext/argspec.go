package shellcontext

// ArgKind distinguishes the declarative forms the `arg` builtin
// accepts.
type ArgKind int

const (
	ArgPositionalRequired ArgKind = iota
	ArgPositionalOptional
	ArgNamedOption
	ArgBooleanFlag
)

// ArgValueType is the declared type of a named/positional argument.
type ArgValueType int

const (
	ArgTypeString ArgValueType = iota
	ArgTypeNumber
	ArgTypeBoolean
)

// ArgSpec is one declared argument/flag/positional.
type ArgSpec struct {
	Kind        ArgKind
	Name        string // positional name, or long option name (without --)
	Short       string // short flag letter, if any (without -)
	Type        ArgValueType
	HasDefault  bool
	Default     string
	Description string
}

// ArgRegistry is the per-context collection of declared arguments:
// created on the first `arg` call in a context, destroyed when
// `arg --export` completes (success or failure). It is associated with
// the exact context identity and never inherited.
type ArgRegistry struct {
	Description string
	Specs       []ArgSpec
}

// ArgRegistryFor returns this exact context's registry, creating it on
// first use.
func (c *Context) ArgRegistryFor() *ArgRegistry {
	if c.argRegistry == nil {
		c.argRegistry = &ArgRegistry{}
	}
	return c.argRegistry
}

// ClearArgRegistry destroys this exact context's registry (called when
// `arg --export` completes, success or failure).
func (c *Context) ClearArgRegistry() {
	c.argRegistry = nil
}
