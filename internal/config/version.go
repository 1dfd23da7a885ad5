package config

// Version is the fundforge binary version.
// Set at build time via: -ldflags "-X github.com/fundforge/fundforge/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
