// Package standard is the tool-agnostic classifier for cargo diagnostics. It
// recognizes warnings, errors and the source locations that follow them, and
// labels everything else Normal.
package standard

import (
	"regexp"
	"strings"

	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/styled"
)

var locationRegex = regexp.MustCompile(`^\s*--> \S+:\d+:\d+`)

// Diagnostic headers may arrive with the bold and color parameters in either order.
var (
	warningTags = map[styled.Tag]bool{
		styled.TagWarning: true,
		"\x1b[33m":        true,
		"\x1b[1;33m":      true,
	}
	errorTags = map[styled.Tag]bool{
		styled.TagError: true,
		"\x1b[31m":      true,
		"\x1b[1;31m":    true,
	}
)

// Analyzer is the generic cargo classifier. The zero value is ready to use.
type Analyzer struct{}

// New returns a standard Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies line.
func (*Analyzer) Analyze(line styled.Line) analysis.Analysis {
	if first, ok := line.Run(0); ok {
		head := strings.TrimSpace(first.Text)
		switch {
		case warningTags[first.Tag] && strings.HasPrefix(head, "warning"):
			return analysis.OfType(analysis.Warning)
		case errorTags[first.Tag] && strings.HasPrefix(head, "error"):
			return analysis.OfType(analysis.Error)
		}
	}
	if locationRegex.MatchString(line.Plain()) {
		return analysis.OfType(analysis.Location)
	}
	return analysis.OfType(analysis.Normal)
}
