package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.pyrelease/logs/pyrelease.log
	CLILogFileName = "pyrelease.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the pyrelease home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project-specific configuration file.
	// This file is located in the project root directory.
	ProjectConfigName = ".pyrelease.yaml"
)
