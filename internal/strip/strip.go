package strip

import (
	"fmt"
	"regexp"
	"strings"
)

// CatchReplacement is the callback substituted for a catch handler that only logged.
const CatchReplacement = ".catch(e => {})"

var (
	// whole line of one or more targeted calls, line break included
	standaloneRe = regexp.MustCompile(`(?m)^[ \t]*(?:console\.(?:log|warn)\([^)]*\);[ \t]*)+\r?(?:\n|\z)`)
	inlineRe     = regexp.MustCompile(`console\.(?:log|warn)\([^)]*\);[ \t]*`)
	catchRe      = regexp.MustCompile(`\.catch\([^)]*console\.(?:log|warn)\([^)]*\)[^)]*\)`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n\s*\n`)
)

var targetPrefixes = []string{"console.log(", "console.warn("}

// Mode selects the stripping strategy.
type Mode uint8

const (
	// ModeRegex runs the four-rule pipeline (Strip).
	ModeRegex Mode = iota
	// ModeLine runs the line-by-line variant (StripLines).
	ModeLine
)

// Modes lists every supported mode, default first.
var Modes = []Mode{ModeRegex, ModeLine}

func (m Mode) String() string {
	switch m {
	case ModeRegex:
		return "regex"
	case ModeLine:
		return "line"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name into a Mode. An empty name means ModeRegex.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regex":
		return ModeRegex, nil
	case "line":
		return ModeLine, nil
	default:
		return ModeRegex, fmt.Errorf("invalid strip mode %q (expected regex|line)", s)
	}
}

// Stats counts how often each rule fired.
type Stats struct {
	Standalone int // lines deleted
	Inline     int // calls excised from lines with other code
	Catch      int // catch handlers neutralised
	Collapsed  int // blank runs shrunk
}

// Changed reports whether any rule fired.
func (s Stats) Changed() bool {
	return s.Standalone+s.Inline+s.Catch+s.Collapsed > 0
}

// Removed returns the number of deleted lines and excised calls.
func (s Stats) Removed() int {
	return s.Standalone + s.Inline
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Standalone += other.Standalone
	s.Inline += other.Inline
	s.Catch += other.Catch
	s.Collapsed += other.Collapsed
}

// Apply runs the strategy selected by mode.
func Apply(mode Mode, text string) (string, Stats) {
	if mode == ModeLine {
		return StripLines(text)
	}
	return Strip(text)
}

// Strip removes console.log and console.warn calls from text and tidies the
// blank lines the removal leaves behind. text should use LF line breaks.
func Strip(text string) (string, Stats) {
	var st Stats
	text = replaceCounting(standaloneRe, text, "", &st.Standalone)
	text = replaceCounting(inlineRe, text, "", &st.Inline)
	text = replaceCounting(catchRe, text, CatchReplacement, &st.Catch)
	text, st.Collapsed = CollapseBlankRuns(text)
	return text, st
}

// CollapseBlankRuns shrinks every run of three or more line breaks, possibly
// separated by whitespace, to exactly two. It returns the number of runs shrunk.
func CollapseBlankRuns(text string) (string, int) {
	n := 0
	text = replaceCounting(blankRunRe, text, "\n\n", &n)
	return text, n
}

// StripLines processes text line by line. A line whose trimmed content starts
// with a targeted call is dropped whatever follows the call; otherwise inline
// calls are excised and the line is dropped if nothing but whitespace is left.
func StripLines(text string) (string, Stats) {
	var st Stats
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !containsTarget(line) {
			out = append(out, line)
			continue
		}
		if hasTargetPrefix(strings.TrimSpace(line)) {
			st.Standalone++
			continue
		}
		cleaned := replaceCounting(inlineRe, line, "", &st.Inline)
		if strings.TrimSpace(cleaned) != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, "\n"), st
}

func containsTarget(line string) bool {
	for _, p := range targetPrefixes {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

func hasTargetPrefix(s string) bool {
	for _, p := range targetPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func replaceCounting(re *regexp.Regexp, text, repl string, count *int) string {
	return re.ReplaceAllStringFunc(text, func(string) string {
		*count++
		return repl
	})
}
