package page

import (
	"fmt"
	"strconv"
	"strings"
)

// expandVersions turns a comma-separated version specifier (">=3.7,<3.11")
// into the explicit list of supported minor versions, ascending. Clauses:
//
//	>=X.Y  sets the lower bound (last occurrence wins)
//	<=X.Y  sets the upper bound (last occurrence wins)
//	<X.Y   sets the upper bound to X.(Y-1)
//
// Other clause forms (!=, ~=, >) are ignored. When no clause sets an upper
// bound, defaultMax applies. Non-numeric parts and inverted ranges are
// errors.
func expandVersions(spec, defaultMin, defaultMax string) ([]string, error) {
	minVer := defaultMin
	maxVer := ""

	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.Contains(clause, ">="):
			minVer = afterOp(clause, ">=")
		case strings.Contains(clause, "<="):
			maxVer = afterOp(clause, "<=")
		case strings.Contains(clause, "<"):
			bound, err := decrementMinor(afterOp(clause, "<"))
			if err != nil {
				return nil, err
			}
			maxVer = bound
		}
	}

	if maxVer == "" {
		maxVer = defaultMax
	}

	minMinor, err := minorOf(minVer)
	if err != nil {
		return nil, err
	}
	maxMinor, err := minorOf(maxVer)
	if err != nil {
		return nil, err
	}
	if minMinor > maxMinor {
		return nil, fmt.Errorf("inverted version range %s..%s", minVer, maxVer)
	}

	versions := make([]string, 0, maxMinor-minMinor+1)
	for v := minMinor; v <= maxMinor; v++ {
		versions = append(versions, "3."+strconv.Itoa(v))
	}
	return versions, nil
}

func afterOp(clause, op string) string {
	return strings.TrimSpace(clause[strings.Index(clause, op)+len(op):])
}

func minorOf(version string) (int, error) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, fmt.Errorf("version %q has no minor component", version)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("version %q: non-numeric minor component", version)
	}
	return minor, nil
}

// decrementMinor computes the greatest minor version strictly below the
// given one. Integer arithmetic on the minor component keeps two-digit
// minors correct: <3.10 means an upper bound of 3.9.
func decrementMinor(version string) (string, error) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("version %q has no minor component", version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("version %q: non-numeric major component", version)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("version %q: non-numeric minor component", version)
	}
	if minor == 0 {
		return "", fmt.Errorf("no minor version below %q", version)
	}
	return fmt.Sprintf("%d.%d", major, minor-1), nil
}
