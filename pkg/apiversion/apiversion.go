// Package apiversion checks the optional version constraint an RPC caller
// may attach to a request against the version this service exposes.
package apiversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
)

const logPrefix = "apiversion:apiversion"

var majorOnlyRegex = regexp.MustCompile(`^v?\d+$`)

// Checker holds the service API version.
type Checker struct {
	version *masterminds.Version
}

// NewChecker parses the service API version (e.g. "1.4.0").
func NewChecker(version string) (*Checker, error) {
	v, err := masterminds.NewVersion(strings.TrimSpace(version))
	if err != nil {
		return nil, fmt.Errorf("%s - invalid API version %q: %w", logPrefix, version, err)
	}
	return &Checker{version: v}, nil
}

// Version returns the canonical service API version.
func (c *Checker) Version() string {
	return c.version.String()
}

// Major returns the major component of the service API version.
func (c *Checker) Major() int {
	return int(c.version.Major())
}

// IsMajorOnly reports whether rangeStr names a bare major version ("1" or "v1").
func IsMajorOnly(rangeStr string) bool {
	return majorOnlyRegex.MatchString(rangeStr)
}

// Satisfies reports whether the service version matches rangeStr. An empty
// range always matches. Supported forms: major-only ("1"), exact ("1.2.0")
// and any Masterminds constraint ("^1.2", "~1.4.0", ">=1.0.0 <2.0.0").
func (c *Checker) Satisfies(rangeStr string) (bool, error) {
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return true, nil
	}

	if IsMajorOnly(rangeStr) {
		major, err := strconv.Atoi(strings.TrimPrefix(rangeStr, "v"))
		if err != nil {
			return false, fmt.Errorf("%s - invalid major %q: %w", logPrefix, rangeStr, err)
		}
		return c.Major() == major, nil
	}

	constraint, err := masterminds.NewConstraint(rangeStr)
	if err != nil {
		exact, verr := masterminds.NewVersion(rangeStr)
		if verr != nil {
			return false, fmt.Errorf("%s - invalid version constraint %q: %w", logPrefix, rangeStr, err)
		}
		return exact.Equal(c.version), nil
	}
	return constraint.Check(c.version), nil
}
