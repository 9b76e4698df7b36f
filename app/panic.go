package app

import (
	"fmt"
	"runtime/debug"
	"strings"
	"unicode/utf8"
)

// guard runs step and turns a panic into a panic screen and an error that
// stops the host runner.
func (s *system) guard(step func() error) func() error {
	return func() (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			s.logf("bootcon panic: %v", r)
			for _, line := range strings.Split(string(stack), "\n") {
				if line == "" {
					continue
				}
				s.logf("%s", line)
			}
			if s.screen != nil {
				lines := []string{fmt.Sprintf("panic: %v", r), "stack:"}
				lines = append(lines, strings.Split(string(stack), "\n")...)
				bootScreen(s.screen, lines...)
			}
			err = fmt.Errorf("app: panic: %v", r)
		}()
		return step()
	}
}

// takeRunes splits s after n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
