package config

// File and directory permission constants.
const (
	// DirPermissions applies to the state directory (~/.tokq).
	DirPermissions = 0o750

	// FilePermissions applies to exported catalog and view files.
	FilePermissions = 0o640

	// DBFilePermissions applies to the view database.
	DBFilePermissions = 0o600
)
