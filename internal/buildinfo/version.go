// Package buildinfo holds this repository's own version information,
// modeled on the teacher's pkg/mutagen/version.go. Unlike that package, no
// version is ever sent or received over the wire (this repository does no
// network transport); Signature/Delta files instead carry their own format
// tag (rsync.FormatAdler32MD5) to pin algorithm compatibility.
package buildinfo

import "fmt"

const (
	// VersionMajor is the current major version.
	VersionMajor = 0
	// VersionMinor is the current minor version.
	VersionMinor = 1
	// VersionPatch is the current patch version.
	VersionPatch = 0
)

// Version is the current version in "major.minor.patch" form.
var Version string

func init() {
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
