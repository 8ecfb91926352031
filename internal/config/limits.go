package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxPermissionEntries caps the number of explicit entries a single
	// resource may carry. Lists beyond this point to a modeling problem
	// (department/company scope should be used instead of per-user grants).
	MaxPermissionEntries = 500
)
