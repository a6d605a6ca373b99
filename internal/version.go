package internal

// Version is overwritten at link time with -ldflags "-X github.com/aiuniverse/universe/internal.Version=...".
var Version = "devel"
