package config

// Version is the belnav binary version.
// Set at build time via: -ldflags "-X github.com/belnav/belnav/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
