package tree

import (
	"fmt"
	"strings"
)

const forbiddenKeyChars = ".#$[]/"

// SplitPath splits a slash separated path into its segments.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// JoinPath joins segments to an absolute path.
func JoinPath(segments ...string) string {
	return "/" + strings.Join(segments, "/")
}

// ValidatePath checks that all segments of the path are valid keys.
func ValidatePath(path string) error {
	for _, segment := range SplitPath(path) {
		if err := ValidateKey(segment); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidPath, path, err)
		}
	}
	return nil
}

// ValidateKey checks whether the key may be used in a tree.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	case strings.ContainsAny(key, forbiddenKeyChars):
		return fmt.Errorf("%w %q: must not contain any of %q", ErrInvalidKey, key, forbiddenKeyChars)
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w %q: must not contain control characters", ErrInvalidKey, key)
		}
	}
	return nil
}
