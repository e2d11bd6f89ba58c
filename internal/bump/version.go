package bump

import "regexp"

var semverPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// ValidVersion reports whether v looks like MAJOR.MINOR.PATCH with optional
// pre-release and build suffixes. The check is loose; it does not reject
// leading zeros.
func ValidVersion(v string) bool {
	return semverPattern.MatchString(v)
}
