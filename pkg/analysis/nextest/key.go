package nextest

import (
	"strings"

	"github.com/dkoosis/lineclass/pkg/styled"
)

// closingMarker ends the test key on title lines.
const closingMarker = " ---"

// extractKey reads a test key from c, which must sit just after the line's
// prefix. It skips the package name run and the separator run, then joins the
// text of styled runs until a closing marker. Unstyled runs in the key are
// renderer noise and contribute nothing. Any run left after the closing
// marker, or an empty key, fails the match.
func extractKey(c *styled.Cursor) (string, bool) {
	c.Skip(2)
	var key strings.Builder
	for {
		r, ok := c.Next()
		if !ok {
			break
		}
		if r.Tag == styled.TagNone {
			continue
		}
		if r.Text == closingMarker || r.Tag == styled.TagTitle {
			break
		}
		key.WriteString(r.Text)
	}
	if c.More() || key.Len() == 0 {
		return "", false
	}
	return key.String(), true
}
