package constants

import "os"

const (
	// DefaultFilePermissions applies to saved response bodies (rw-r--r--).
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions applies to output folders created on demand (rwxr-xr-x).
	DefaultFolderPermissions os.FileMode = 0o755

	// PartialFileSuffix marks a response body that is still being written.
	PartialFileSuffix = ".part"
)
