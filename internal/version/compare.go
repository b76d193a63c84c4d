package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks whether a configuration written for
// configVersion can be loaded by a library at libraryVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - The config's minor version must not be newer than the library's
//   - Patch versions are ignored
//
// Examples:
//   - Library 1.2.0, Config 1.2.0 -> OK
//   - Library 1.3.0, Config 1.1.4 -> OK (older config, same major)
//   - Library 1.2.0, Config 1.3.0 -> ERROR (config needs newer library)
//   - Library 2.0.0, Config 1.2.0 -> ERROR (major differs)
func CheckConfigCompatibility(libraryVersion, configVersion string) error {
	libraryVersion = strings.TrimPrefix(libraryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if libraryVersion == "main" || configVersion == "main" {
		return nil
	}

	librarySemver, err := semver.NewVersion(libraryVersion)
	if err != nil {
		return fmt.Errorf("invalid library version '%s': %w", libraryVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if librarySemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: library is %d.x.x but config requires %d.x.x",
			librarySemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > librarySemver.Minor() {
		return fmt.Errorf("config requires %d.%d.x but library is %d.%d.x",
			configSemver.Major(), configSemver.Minor(),
			librarySemver.Major(), librarySemver.Minor())
	}

	return nil
}
