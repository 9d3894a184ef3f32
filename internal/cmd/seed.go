package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Josh-Grafman/boatrental/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load boats, types and reviews into the database",
	Long: `Load a fleet into the database.

Without --file the fleet bundled with boatrental is loaded. A database that
already has boats is left alone unless --force is given.

A fleet file is YAML:

  types: [Fishing, Sailboat]
  boats:
    - id: b-sea-breeze
      name: Sea Breeze
      type: Sailboat
      price: 250
      length: 22
      location: {latitude: 37.8067, longitude: -122.4230}
  reviews:
    - boat: b-sea-breeze
      subject: Lovely day out
      rating: 5`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var (
	seedFile  string
	seedForce bool
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Fleet YAML file (default: bundled fleet)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even when the database already has boats")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var (
		fleet *store.Fleet
		err   error
	)
	if seedFile != "" {
		fleet, err = store.LoadFleet(seedFile)
	} else {
		fleet, err = store.DefaultFleet()
	}
	if err != nil {
		return err
	}

	env, err := open(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	res, err := env.store.Seed(ctx, fleet, seedForce)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Fprintln(out, "Database already has boats; nothing seeded. Use --force to seed anyway.")
		return nil
	}
	env.logger.Info("seeded", "types", res.Types, "boats", res.Boats, "reviews", res.Reviews)
	fmt.Fprintf(out, "Seeded %d types, %d boats and %d reviews into %s\n",
		res.Types, res.Boats, res.Reviews, env.store.Path())
	return nil
}
