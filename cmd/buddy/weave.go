package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/observ"
	"bytebuddy/internal/project"
)

var (
	weaveManifest string
	weaveOut      string
)

func init() {
	weaveCmd.Flags().StringVar(&weaveManifest, "manifest", "", "path to weave.toml (default: discovered upward from cwd)")
	weaveCmd.Flags().StringVar(&weaveOut, "out", "", "artifact output directory (default: [weave].output)")
}

var weaveCmd = &cobra.Command{
	Use:   "weave",
	Short: "Materialize the manifest's weave plan into saved artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		manifestPath := weaveManifest
		if manifestPath == "" {
			found, ok, err := project.FindWeaveToml(".")
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no weave.toml found; use --manifest")
			}
			manifestPath = found
		}

		m, err := project.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		u, err := project.BuildUniverse(m)
		if err != nil {
			return err
		}
		b, err := project.PlanBuilder(m, u)
		if err != nil {
			return err
		}

		var timer *observ.Timer
		if showTimings(cmd) {
			timer = observ.NewTimer()
		}
		art, err := b.MakeWith(emit.DefaultEmitter(), timer)
		if err != nil {
			return err
		}

		out := weaveOut
		if out == "" {
			out = m.Weave.Output
		}
		if !filepath.IsAbs(out) {
			out = filepath.Join(filepath.Dir(manifestPath), out)
		}
		saveIdx := observ.BeginPhase(timer, "save")
		if err := art.SaveIn(out); err != nil {
			return err
		}
		table := art.ModuleTable()
		observ.EndPhase(timer, saveIdx, fmt.Sprintf("%d artifacts", len(table)))

		nameColor := color.New(color.FgCyan, color.Bold)
		auxDigests := make([]project.Digest, 0, len(art.Auxiliaries()))
		for _, aux := range art.Auxiliaries() {
			auxDigests = append(auxDigests, project.ArtifactDigest(aux.Bytes()))
		}
		for name, raw := range table {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n",
				nameColor.Sprint(name), project.ArtifactDigest(raw).Short(), len(raw))
		}
		graph := project.Combine(project.ArtifactDigest(art.Bytes()), auxDigests...)
		fmt.Fprintf(cmd.OutOrStdout(), "graph %s -> %s\n",
			nameColor.Sprint(art.Name()), graph.Short())

		if timer != nil {
			fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
		}
		return nil
	},
}
