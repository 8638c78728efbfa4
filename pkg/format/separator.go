package format

import "strings"

const (
	// sectionLineWidth is the number of trailing box characters after a section name.
	sectionLineWidth = 94
	// endingLineWidth is the number of box characters after the ending corner.
	endingLineWidth = 109
)

// StartingLine returns the boxed top line of a section.
func StartingLine(name string) string {
	return "┌────── " + name + " " + strings.Repeat("─", sectionLineWidth)
}

// EndingLine returns the boxed bottom line of a section.
func EndingLine() string {
	return "└" + strings.Repeat("─", endingLineWidth)
}

// NewLine returns the empty line that precedes a section.
func NewLine() string {
	return ""
}
