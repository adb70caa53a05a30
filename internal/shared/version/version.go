package version

// Version is the release version stamped into reports and --version
// output. Overridden at build time via -ldflags "-X".
var Version = "0.3.0"
