package summarize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ringkas/internal/domain/entity"
)

// ErrFormatViolation means the output does not follow the list format its
// instruction asked for.
var ErrFormatViolation = errors.New("output does not follow the requested format")

const keyPointBullet = "•"

var numberedLine = regexp.MustCompile(`^\d+[.)]\s+\S`)

// CheckKeyPoints reports the first line that is not a "•" bullet. Lines
// starting with "-", "*" or "+" are markdown bullets and always rejected.
func CheckKeyPoints(output string) error {
	items := 0
	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"), strings.HasPrefix(line, "+"):
			return fmt.Errorf("%w: line %d uses %q instead of %q", ErrFormatViolation, i+1, line[:1], keyPointBullet)
		case !strings.HasPrefix(line, keyPointBullet):
			return fmt.Errorf("%w: line %d does not start with %q", ErrFormatViolation, i+1, keyPointBullet)
		}
		items++
	}
	if items == 0 {
		return fmt.Errorf("%w: no key points", ErrFormatViolation)
	}
	return nil
}

// CheckNumberedList counts "1." or "1)" items. want of zero accepts any
// count above zero.
func CheckNumberedList(output string, want int) error {
	items := 0
	for _, line := range strings.Split(output, "\n") {
		if numberedLine.MatchString(strings.TrimSpace(line)) {
			items++
		}
	}
	switch {
	case items == 0:
		return fmt.Errorf("%w: no numbered items", ErrFormatViolation)
	case want > 0 && items != want:
		return fmt.Errorf("%w: %d numbered items, want %d", ErrFormatViolation, items, want)
	}
	return nil
}

// CheckFormat applies the check matching format. Summaries are free text.
func CheckFormat(format entity.OutputFormat, output string) error {
	switch format {
	case entity.FormatKeyPoints:
		return CheckKeyPoints(output)
	case entity.FormatQuestions:
		return CheckNumberedList(output, 0)
	case entity.FormatContentIdeas:
		return CheckNumberedList(output, 5)
	default:
		return nil
	}
}
