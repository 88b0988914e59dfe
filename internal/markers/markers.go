// Package markers implements the side-channel protocol embedded in model
// replies.
//
// Grammar: a marker is "[NAME: payload]" where NAME is one of ONTHOUD,
// TODO_ADD or TODO_DONE, the name and payload are separated by a colon and
// optional whitespace, and the payload runs to the first ']'. There is no
// escaping; a literal ']' in the payload ends the marker early. TODO_DONE
// payloads are 1-based list positions as shown to users.
package markers

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	factRe = regexp.MustCompile(`\[ONTHOUD:\s*([^\]]+)\]`)
	addRe  = regexp.MustCompile(`\[TODO_ADD:\s*([^\]]+)\]`)
	doneRe = regexp.MustCompile(`\[TODO_DONE:\s*(\d+)\]`)
)

// Facts extracts the payload of every ONTHOUD marker in order.
func Facts(text string) []string {
	return payloads(factRe, text)
}

// TodoAdds extracts the payload of every TODO_ADD marker in order.
func TodoAdds(text string) []string {
	return payloads(addRe, text)
}

// TodoDones extracts every TODO_DONE position, converted from the 1-based
// marker payload to a zero-based list index. Non-positive positions are
// dropped.
func TodoDones(text string) []int {
	var out []int
	for _, m := range doneRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		out = append(out, n-1)
	}
	return out
}

// Strip removes all marker families and trims the result. Stripping
// already-stripped text is a no-op.
func Strip(text string) string {
	text = factRe.ReplaceAllString(text, "")
	text = addRe.ReplaceAllString(text, "")
	text = doneRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func payloads(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		p := strings.TrimSpace(m[1])
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
