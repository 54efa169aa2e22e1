package version

// Version is the build version. Overridden at link time via
// -ldflags "-X surface/internal/shared/version.Version=...".
var Version = "0.3.0"
