package commands

import (
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task id from args.
//
// A reference is the id printed in the first column of `taskboard list`,
// optionally prefixed with '#'. Ids are opaque but end up in a URL path, so
// only letters, digits, '-' and '_' are accepted. Exactly one reference is
// allowed.
func ParseTaskRef(args []string) (service.ID, error) {
	if len(args) == 0 {
		return "", ErrTaskRefRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if ref == "" {
		return "", ErrTaskRefRequired
	}
	for _, r := range ref {
		if !isRefRune(r) {
			return "", fmt.Errorf("invalid task reference: %s", args[0])
		}
	}
	return service.ID(ref), nil
}

func isRefRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
