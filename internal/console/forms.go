package console

import (
	"net/http"
	"strconv"
	"strings"
)

// form is the data for every create/edit page.
type form[T any] struct {
	Heading string
	Action  string
	Editing bool
	Cancel  string
	Input   T
}

// saveFailed is shown when the backend rejects a create or update.
func saveFailed(entity string) string {
	return "Failed to save " + entity + ". Please try again."
}

// atoi parses a number field the way the form does: anything unparseable is 0.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// nonEmpty drops blank values from a multi-value field.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseForm rejects a malformed body with 400. Handlers stop when it returns false.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}
