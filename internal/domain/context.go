package domain

// PlatformContext describes where a suggested command will run. It is
// injected into the suggestion system prompt.
type PlatformContext struct {
	OS         string
	Arch       string
	Shell      string
	WorkingDir string
}

// Reference is supplementary documentation, typically a man page excerpt,
// attached to an explanation request.
type Reference struct {
	Command string
	Content string
}
