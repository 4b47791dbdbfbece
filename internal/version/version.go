// internal/version/version.go
package version

// Version is the released tool version. Overridden at build time via
// -ldflags "-X abm/internal/version.Version=...".
var Version = "1.0.0"
