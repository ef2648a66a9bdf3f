package build

import "runtime"

// Set at link time with -ldflags "-X github.com/BoltzExchange/boltz-bolt12/internal/build.Commit=..."
var Commit string

var Version = "0.1.0"

func GetVersion() string {
	version := "v" + Version
	if Commit != "" {
		version += "-" + Commit
	}
	return version
}

// Describe is the version line printed by the binaries.
func Describe(name string) string {
	return name + " " + GetVersion() + " built with " + runtime.Version()
}
