// Package navedit holds release metadata for the navedit binary.
package navedit

import (
	_ "embed"
	"regexp"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

//go:embed VERSION
var embeddedVersion string

// Version returns the release version in SemVer format (without `v`).
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns the git tag form of Version (with leading `v`).
func VersionTag() string {
	return "v" + Version()
}

// IsSemver reports whether v matches SemVer 2.0.0.
func IsSemver(v string) bool {
	return semverRE.MatchString(strings.TrimSpace(v))
}

// ResolveVersion prefers a linker-injected version and falls back to the
// embedded one for untagged builds.
func ResolveVersion(injected string) string {
	injected = strings.TrimPrefix(strings.TrimSpace(injected), "v")
	if injected == "" || injected == "dev" || !IsSemver(injected) {
		return Version()
	}
	return injected
}
