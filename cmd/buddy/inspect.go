package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/project"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <artifact.mp>",
	Short: "Decode a saved artifact and print its dispatch program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), ".mp")
		prog, err := emit.Decode(name, raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		head := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.Faint)

		fmt.Fprintf(out, "%s (schema %d, %s)\n", head.Sprint(prog.Name), prog.Schema,
			project.ArtifactDigest(raw).Short())
		if prog.Super != "" {
			fmt.Fprintf(out, "  super %s\n", prog.Super)
		}
		if len(prog.Interfaces) > 0 {
			fmt.Fprintf(out, "  implements %s\n", strings.Join(prog.Interfaces, ", "))
		}
		if prog.Serializable {
			fmt.Fprintln(out, "  serializable")
		}
		for _, f := range prog.Fields {
			fmt.Fprintf(out, "  field %s %s\n", f.Name, f.Type)
		}
		for _, plan := range prog.Methods {
			fmt.Fprintf(out, "  method %s %s", plan.Sig.Erased(), plan.Instr.Op)
			switch {
			case plan.Instr.Special != nil:
				fmt.Fprintf(out, " %s", dim.Sprintf("-> %s.%s", plan.Instr.Special.Owner, plan.Instr.Special.Sig.Name))
			case plan.Instr.Slot != "":
				fmt.Fprintf(out, " %s", dim.Sprintf("-> %s.%s", plan.Instr.Slot, plan.Instr.Method))
			}
			fmt.Fprintln(out)
		}
		for _, slot := range prog.Slots {
			fmt.Fprintf(out, "  slot %s\n", slot)
		}
		return nil
	},
}
