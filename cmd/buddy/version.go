package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bytebuddy/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show buddy build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch strings.ToLower(versionFormat) {
		case "json":
			payload := versionPayload{Tool: "buddy", Version: version.Version}
			if versionShowFull {
				payload.GitCommit = version.GitCommit
				payload.BuildDate = version.BuildDate
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			fmt.Fprintf(out, "buddy %s\n", version.Version)
			if versionShowFull {
				if version.GitCommit != "" {
					fmt.Fprintf(out, "commit %s\n", version.GitCommit)
				}
				if version.BuildDate != "" {
					fmt.Fprintf(out, "built %s\n", version.BuildDate)
				}
			}
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}
