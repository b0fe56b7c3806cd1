package buildinfo

// Set with -ldflags "-X github.com/stockscreen/screener/internal/buildinfo.Version=..." for release builds.
// They default to empty for local/dev builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
