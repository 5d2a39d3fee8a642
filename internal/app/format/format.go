// Package format turns structured transcription results into line-oriented
// scripts. Everything here is pure: no I/O, no clock, no shared state.
package format

import (
	"strings"

	"github.com/samber/lo"

	"clipscribe/internal/app/model"
)

// Sentence terminators tried in order by the no-segments fallback. The
// terminator is kept on the line; the trailing space is consumed.
var sentenceTerminators = []string{". ", "? ", "! "}

// Script renders a transcription result as one line per segment, skipping
// empty segments. When the model produced no segments but did produce
// aggregate text, the text is split into sentences instead. An empty return
// value means no speech; callers must reject it rather than persist it.
func Script(result *model.TranscriptionResult) string {
	lines := lo.FilterMap(result.Segments, func(s model.Segment, _ int) (string, bool) {
		text := strings.TrimSpace(s.Text)
		return text, text != ""
	})

	if len(lines) == 0 && strings.TrimSpace(result.Text) != "" {
		lines = splitSentences(result.Text)
	}

	return strings.Join(lines, "\n")
}

// LineCount returns the number of lines in a non-empty script.
func LineCount(script string) int {
	if script == "" {
		return 0
	}
	return strings.Count(script, "\n") + 1
}

func splitSentences(text string) []string {
	for _, sep := range sentenceTerminators {
		text = strings.ReplaceAll(text, sep, sep+"\n")
	}

	return lo.FilterMap(strings.Split(text, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != ""
	})
}
