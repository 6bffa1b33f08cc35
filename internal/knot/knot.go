package knot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ContentType is the MIME type attached to exported knots.
const ContentType = "text/javascript"

// Extension is the file extension of exported knots.
const Extension = ".js"

// DefaultCode seeds newly created knots.
const DefaultCode = `// knot: transform the input and return the result
export default function knot(input) {
  return input;
}
`

const untitledName = "Untitled knot"

var (
	ErrEmptyName       = errors.New("knot name is required")
	ErrInvalidFilename = errors.New("invalid export filename")
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Knot is a named, user-owned code artifact.
type Knot struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slug lower-cases name and collapses every whitespace run into one hyphen.
// Leading and trailing runs are replaced too, not trimmed.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// Filename returns the suggested export filename for a knot name.
func Filename(name string) string {
	return Slug(name) + Extension
}

// ValidateName rejects blank names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Validate checks a knot before it is written to the store.
func Validate(k Knot) error {
	if strings.TrimSpace(k.ID) == "" {
		return fmt.Errorf("knot id is required")
	}
	return ValidateName(k.Name)
}

// NextUntitledName picks the first free "Untitled knot" name.
func NextUntitledName(existing []Knot) string {
	taken := make(map[string]struct{}, len(existing))
	for _, k := range existing {
		taken[strings.ToLower(strings.TrimSpace(k.Name))] = struct{}{}
	}
	if _, ok := taken[strings.ToLower(untitledName)]; !ok {
		return untitledName
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", untitledName, i)
		if _, ok := taken[strings.ToLower(name)]; !ok {
			return name
		}
	}
}

// Contains reports whether id is one of the listed knots.
func Contains(knots []Knot, id string) bool {
	if id == "" {
		return false
	}
	for _, k := range knots {
		if k.ID == id {
			return true
		}
	}
	return false
}

// Find returns the listed knot with the given id.
func Find(knots []Knot, id string) (Knot, bool) {
	for _, k := range knots {
		if k.ID == id {
			return k, true
		}
	}
	return Knot{}, false
}
