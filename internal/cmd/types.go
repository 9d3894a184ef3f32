package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Josh-Grafman/boatrental/internal/boat"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List boat types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

var typesJSON bool

func init() {
	rootCmd.AddCommand(typesCmd)

	typesCmd.Flags().BoolVar(&typesJSON, "json", false, "Print JSON instead of a table")
}

func runTypes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	types, err := env.svc.BoatTypes(ctx)
	if err != nil {
		return err
	}
	if typesJSON {
		if types == nil {
			types = []boat.BoatType{}
		}
		return printJSON(out, types)
	}
	if len(types) == 0 {
		fmt.Fprintln(out, "No boat types.")
		return nil
	}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{t.ID, t.Name})
	}
	printTable(out, []string{"ID", "Name"}, rows)
	return nil
}
