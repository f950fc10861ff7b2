package domain

// ExplanationSegment explains one fragment of a command. ManCitation is set
// when the description is backed by a quote from reference documentation.
type ExplanationSegment struct {
	Fragment    string  `json:"fragment"`
	Description string  `json:"description"`
	ManCitation *string `json:"man_citation,omitempty"`
}

// ExplanationResult is an ordered breakdown of a shell command.
type ExplanationResult struct {
	Command  string               `json:"command"`
	Synopsis string               `json:"synopsis"`
	Segments []ExplanationSegment `json:"segments"`
}
