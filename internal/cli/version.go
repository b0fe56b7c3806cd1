package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/buildinfo"
	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/ui"
)

const defaultModulePath = "github.com/stockscreen/screener"

// versionInfo describes the binary and what its engine supports.
type versionInfo struct {
	Version    string   `json:"version"`
	ModulePath string   `json:"module_path"`
	Commit     string   `json:"commit,omitempty"`
	BuiltAt    string   `json:"built_at,omitempty"`
	Dirty      bool     `json:"dirty"`
	GoVersion  string   `json:"go_version"`
	Platform   string   `json:"platform"`
	Fields     int      `json:"fields"`
	Dialects   []string `json:"dialects"`
	Formats    []string `json:"dataset_formats"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show screener version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()
		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		build := []string{info.GoVersion, info.Platform}
		if info.Commit != "" {
			commit := info.Commit
			if len(commit) > 12 {
				commit = commit[:12]
			}
			if info.Dirty {
				commit += "-dirty"
			}
			build = append([]string{commit}, build...)
		}
		fmt.Printf("screener %s (%s)\n", info.Version, strings.Join(build, ", "))
		fmt.Println(ui.Hint(fmt.Sprintf("%d fields; sql dialects %s; datasets %s",
			info.Fields, strings.Join(info.Dialects, ", "), strings.Join(info.Formats, ", "))))
		return nil
	},
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Fields:     filter.DefaultVocabulary().Len(),
		Dialects:   []string{filter.DialectSQLite.String(), filter.DialectPostgres.String()},
		Formats:    []string{string(dataset.FormatCSV), string(dataset.FormatJSON), string(dataset.FormatParquet)},
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		info.Version = normalizeVersion(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		if goos, goarch := settings["GOOS"], settings["GOARCH"]; goos != "" && goarch != "" {
			info.Platform = goos + "/" + goarch
		}
		info.Commit = settings["vcs.revision"]
		info.BuiltAt = settings["vcs.time"]
		info.Dirty = settings["vcs.modified"] == "true"
	}

	// Release builds set buildinfo through -ldflags; those win only where
	// the module metadata has nothing.
	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.BuiltAt == "" {
		info.BuiltAt = buildinfo.Date
	}
	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
