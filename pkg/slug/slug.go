package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
	dashRuns     = regexp.MustCompile(`-{2,}`)
	trimmedDash  = "-"
	maxBaseRunes = 80
)

// Make lowercases the input and collapses anything that is not a
// letter or digit into single dashes.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, trimmedDash)
	if len(s) > maxBaseRunes {
		s = strings.Trim(s[:maxBaseRunes], trimmedDash)
	}
	if s == "" {
		s = "untitled"
	}
	return s
}

// MakeUnique derives a slug from base and appends -1, -2, ... until
// existsFn reports the candidate as free. existsFn errors abort the
// search.
func MakeUnique(base string, existsFn func(candidate string) (bool, error)) (string, error) {
	candidate := Make(base)
	taken, err := existsFn(candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := existsFn(next)
		if err != nil {
			return "", err
		}
		if !taken {
			return next, nil
		}
	}
}
