package nlp

import (
	"regexp"
	"strings"
)

var (
	// Everything before the first date/time boundary keyword is the task.
	taskBoundaryRe = regexp.MustCompile(`(?i)^(.+?)(?:\b(?:by|at|before|on|next|tomorrow|end of this week|1st of next month)\b|$)`)
	fillerWordRe   = regexp.MustCompile(`(?i)\b(?:for|the|to)\b`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// ExtractTask strips the date/time phrase and filler words from raw
// task text, leaving a clean description.
func ExtractTask(text string) string {
	task := text
	if m := taskBoundaryRe.FindStringSubmatch(text); m != nil {
		task = m[1]
	}
	task = whitespaceRe.ReplaceAllString(strings.TrimSpace(task), " ")
	task = fillerWordRe.ReplaceAllString(task, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(task, " "))
}
