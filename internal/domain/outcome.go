package domain

// OutcomeKind is how a frontend interaction ended.
type OutcomeKind string

const (
	OutcomeExecuted  OutcomeKind = "executed"
	OutcomeCopied    OutcomeKind = "copied"
	OutcomeExplained OutcomeKind = "explained"
	OutcomeRevised   OutcomeKind = "revised"
	OutcomeCancelled OutcomeKind = "cancelled"
	OutcomePrinted   OutcomeKind = "printed"
)

// Outcome is returned by a frontend. Command is set for executed and copied
// outcomes, Prompt for revised ones, ExitCode for executed ones.
type Outcome struct {
	Kind     OutcomeKind
	Command  string
	Prompt   string
	ExitCode int
}

func Executed(command string, exitCode int) Outcome {
	return Outcome{Kind: OutcomeExecuted, Command: command, ExitCode: exitCode}
}

func Copied(command string) Outcome {
	return Outcome{Kind: OutcomeCopied, Command: command}
}

func Explained(command string) Outcome {
	return Outcome{Kind: OutcomeExplained, Command: command}
}

func Revised(prompt string) Outcome {
	return Outcome{Kind: OutcomeRevised, Prompt: prompt}
}

func Cancelled() Outcome {
	return Outcome{Kind: OutcomeCancelled}
}

func Printed() Outcome {
	return Outcome{Kind: OutcomePrinted}
}
