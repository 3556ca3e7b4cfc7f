package domain

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Interpreter-reported versions are frequently not strict semver
// ("1.2.3.dev0", "v1.2", "1.2.3 (final)"). We only care about the leading
// dotted numeric core, at most three components deep.
var versionCore = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// ParseVersion extracts the leading dotted numeric core from raw and parses
// it as a version. Everything after the numeric core is discarded.
func ParseVersion(raw string) (*semver.Version, error) {
	core := versionCore.FindString(raw)
	if core == "" {
		return nil, zerr.With(ErrUnparsableVersion, "raw", raw)
	}
	v, err := semver.NewVersion(core)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid version"), "raw", raw)
	}
	return v, nil
}

// MinVersion is the lower bound a reported version must meet. Only the major
// and minor components participate in the comparison; patch-level differences
// are ignored, and a version exactly equal to the minimum is accepted.
type MinVersion struct {
	Major uint64
	Minor uint64
}

// ParseMinVersion parses a "major.minor" string such as "1.2".
func ParseMinVersion(raw string) (*MinVersion, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return nil, err
	}
	return &MinVersion{Major: v.Major(), Minor: v.Minor()}, nil
}

// Accepts reports whether v meets the minimum under major-then-minor
// comparison. The patch component of v is zeroed before comparing so it
// cannot influence the outcome.
func (m *MinVersion) Accepts(v *semver.Version) bool {
	have := semver.New(v.Major(), v.Minor(), 0, "", "")
	want := semver.New(m.Major, m.Minor, 0, "", "")
	return have.Compare(want) >= 0
}

// String returns the "major.minor" form.
func (m *MinVersion) String() string {
	return fmt.Sprintf("%d.%d", m.Major, m.Minor)
}
