// Package rsync implements a three-phase, rsync-style delta transfer
// algorithm: a Signature built from an old version of some content, a Delta
// computed against that signature from a new version of the content, and a
// Patch step that reconstructs the new content from the old content plus the
// delta.
//
// The package deliberately has no notion of network transport or streaming
// I/O; it operates entirely on in-memory content, leaving transport and
// encoding concerns to callers (see internal/rsyncformat for the on-disk
// encoding used by this repository's CLI).
package rsync
