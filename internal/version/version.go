package version

// Version is overridden at build time with -ldflags "-X kr2r/internal/version.Version=...".
var Version = "dev"
