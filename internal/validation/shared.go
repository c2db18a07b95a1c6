package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects per-field validation messages. It is returned to clients as
// the details of a 400 response.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
