package version

// Version is overridden at build time with -ldflags "-X gemini-chat/internal/version.Version=...".
var Version = "dev"
