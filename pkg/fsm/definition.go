package fsm

// State identifies a row of a transition table. Valid states lie in [0, N).
type State int

// Column identifies an equivalence class of input symbols. Valid columns lie in [0, C).
type Column int

// NoState marks the absence of a state, e.g. a table without an absorbing sink.
const NoState State = -1

// Definition is the declarative form of a machine.
// It is the input to Compile and the shape of machine definition files.
type Definition struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	// States and Columns fix the index of every name: the i-th entry becomes State(i) / Column(i).
	States  []string `json:"states" yaml:"states" mapstructure:"states"`
	Columns []string `json:"columns" yaml:"columns" mapstructure:"columns"`

	Initial string `json:"initial" yaml:"initial" mapstructure:"initial"`

	// Sink names the absorbing error state used to stop a run early.
	// If empty, the first error state that loops to itself on every column is used.
	Sink string `json:"sink,omitempty" yaml:"sink,omitempty" mapstructure:"sink"`

	Errors    []string `json:"errors" yaml:"errors" mapstructure:"errors"`
	Accepting []string `json:"accepting" yaml:"accepting" mapstructure:"accepting"`

	// Transitions maps state -> column -> target state. It must be total.
	Transitions map[string]map[string]string `json:"transitions" yaml:"transitions" mapstructure:"transitions"`

	// Classes maps a column to the literal symbols belonging to it.
	// Symbols not listed anywhere fall into Default.
	Classes map[string]string `json:"classes,omitempty" yaml:"classes,omitempty" mapstructure:"classes"`
	Default string            `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
}
