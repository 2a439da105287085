package version

// Version is overridden at build time with
// -ldflags "-X repeattools/internal/version.Version=..."
var Version = "dev"
