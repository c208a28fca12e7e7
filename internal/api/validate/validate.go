package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// usernameRx keeps handles short and unambiguous: lowercase letters, digits,
// underscore and hyphen, 1-32 chars.
var usernameRx = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// Username trims surrounding whitespace and validates the handle. Returns the
// normalized username or an error describing the first violated rule.
func Username(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("username is required")
	}
	if !usernameRx.MatchString(v) {
		return "", fmt.Errorf("username must be 1-32 lowercase letters, digits, underscore or hyphen")
	}
	return v, nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
