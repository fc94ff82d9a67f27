package injection

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseTargetPath splits a dotted target path into its segments and checks
// that every segment is a valid JavaScript identifier. An empty path or an
// empty/invalid segment is a ConfigurationError: the emitter never assigns
// to the global root itself.
func ParseTargetPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &ConfigurationError{Message: "target path is empty"}
	}

	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, &ConfigurationError{Message: fmt.Sprintf("target path %q contains an empty segment", path)}
		}
		if !isIdentifier(segment) {
			return nil, &ConfigurationError{Message: fmt.Sprintf("target path segment %q is not a valid identifier", segment)}
		}
	}
	return segments, nil
}

func isIdentifier(segment string) bool {
	for i, r := range segment {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
