package commands

// Success messages
const (
	MsgInitCancelled = "Init cancelled."
)

// Output formats accepted by `config show` and `config schema`.
const (
	formatHuman = "human"
	formatJSON  = "json"
	formatYAML  = "yaml"
)
