package analyze

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoDrugs is returned when the input contains no usable drug tokens.
var ErrNoDrugs = errors.New("no drug selected")

// Tokens must be uppercase alphanumerics with spaces and hyphens allowed.
var drugToken = regexp.MustCompile(`^[A-Z0-9\- ]+$`)

// ParseDrugs turns the raw selector input into a de-duplicated, uppercase
// token list. The input is split on commas, trimmed and uppercased; empty
// tokens are dropped. A single malformed token rejects the whole input — no
// partial acceptance.
func ParseDrugs(input string) ([]string, error) {
	var (
		drugs []string
		seen  = make(map[string]struct{})
	)
	for _, part := range strings.Split(input, ",") {
		token := strings.ToUpper(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		if !drugToken.MatchString(token) {
			return nil, fmt.Errorf("invalid drug name %q: only letters, numbers, spaces and hyphens are allowed", token)
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		drugs = append(drugs, token)
	}
	if len(drugs) == 0 {
		return nil, ErrNoDrugs
	}
	return drugs, nil
}
