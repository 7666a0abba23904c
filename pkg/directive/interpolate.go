package directive

import (
	"regexp"
	"strings"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// slotPattern matches one {{ expr }} slot, shortest match first.
var slotPattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

// HasInterpolation reports whether text contains at least one slot.
func HasInterpolation(text string) bool {
	return slotPattern.MatchString(text)
}

// Slots returns the trimmed expressions of every slot in text, in order.
// Repeated expressions are kept.
func Slots(text string) []string {
	matches := slotPattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// Interpolate replaces every slot in text with the formatted value of its
// expression, read from store without tracking.
func Interpolate(store *reactive.Store, text string) (string, error) {
	var firstErr error
	out := slotPattern.ReplaceAllStringFunc(text, func(slot string) string {
		expr := strings.TrimSpace(slot[2 : len(slot)-2])
		v, err := store.Get(expr)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return slot
		}
		return Format(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
