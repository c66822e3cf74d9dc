package bot

import (
	"strconv"
	"strings"
)

// Command is a parsed chat command.
type Command struct {
	Name string   // lower-case, with the leading slash, without any @botname
	Args []string // tokens after the command on its first line
	Body string   // every line after the first
}

// ParseCommand splits text into a command. It reports false for text that
// does not start with a slash.
func ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}
	first, body, _ := strings.Cut(text, "\n")
	fields := strings.Fields(first)
	name := strings.ToLower(fields[0])
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}
	return Command{Name: name, Args: fields[1:], Body: body}, true
}

// Arg returns the i-th argument or "" when absent.
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// ArgText rejoins the first-line arguments with single spaces.
func (c Command) ArgText() string {
	return strings.Join(c.Args, " ")
}

// ParseDays reads a day count, falling back to def when s is empty,
// non-numeric or not positive.
func ParseDays(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
