package version

// Version is overridden at build time with
// -ldflags "-X github.com/aquatix/whosthere/internal/version.Version=<tag>".
var Version = "dev"
