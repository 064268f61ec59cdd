// Package prompt implements the timed execution-policy question.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ChooseParallel asks a yes/no question on w and reads one line from r with a
// bounded wait. The default wins on timeout, empty input, or anything
// unrecognized. The policy choice is also available as a flag, so this is a
// convenience path, not the only one.
func ChooseParallel(r io.Reader, w io.Writer, timeout time.Duration, def bool) bool {
	fmt.Fprintf(w, "Use parallel processing? [y/n] (default %s, %s to answer): ", yesNo(def), timeout)

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		if scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case line := <-lines:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			return def
		}
	case <-timer.C:
		fmt.Fprintf(w, "\ntimed out; using default: %s\n", yesNo(def))
		return def
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
