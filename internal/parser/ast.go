package parser

// Prompt is a parsed prompt file: optional metadata header plus the
// instruction body handed to the segmenter.
type Prompt struct {
	Name     string   // Title, or filename without extension
	Title    string
	Tags     []string
	Body     string
	BodyLine int // 1-based file line where Body starts
}

// StepUnit is one ordered slice of the prompt body.
type StepUnit struct {
	Index int    // 0-based position in the unit list
	Line  int    // 1-based line within Body
	Text  string // numeric prefix removed
	Block string // Text plus the unnumbered lines up to the next step
}
