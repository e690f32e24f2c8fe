package styled

import (
	"regexp"
	"strings"
)

// csiRegex matches CSI escape sequences.
var csiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// Parse decodes one raw line of terminal output into runs.
//
// SGR sequences (ESC[...m) set the tag of the text that follows; ESC[0m and
// ESC[m reset it to TagNone. Other CSI sequences are dropped. A run is closed
// whenever the style changes after some text was seen.
func Parse(raw string) Line {
	raw = strings.TrimSuffix(raw, "\r")
	var (
		runs []Run
		cur  Tag
		text strings.Builder
	)
	flush := func() {
		if text.Len() == 0 {
			return
		}
		runs = append(runs, Run{Tag: cur, Text: text.String()})
		text.Reset()
	}

	last := 0
	for _, loc := range csiRegex.FindAllStringIndex(raw, -1) {
		text.WriteString(raw[last:loc[0]])
		last = loc[1]
		seq := raw[loc[0]:loc[1]]
		if !strings.HasSuffix(seq, "m") {
			continue
		}
		next := Tag(seq)
		if seq == sgrReset || seq == "\x1b[m" {
			next = TagNone
		}
		if next == cur {
			continue
		}
		flush()
		cur = next
	}
	text.WriteString(raw[last:])
	flush()
	return Line{Runs: runs}
}
