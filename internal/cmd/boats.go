package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/views"
)

var boatsCmd = &cobra.Command{
	Use:   "boats",
	Short: "List, inspect and edit boats",
}

var boatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boats",
	Long: `List boats, optionally of one type and with names matching a glob.

Examples:
  # Every boat
  boatrental boats list

  # Fishing boats (typos in the type are forgiven)
  boatrental boats list --type fishng

  # Boats whose name contains "reel"
  boatrental boats list --name '*reel*'`,
	Args: cobra.NoArgs,
	RunE: runBoatsList,
}

var boatsShowCmd = &cobra.Command{
	Use:   "show <boat-id>",
	Short: "Show one boat with its rating",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoatsShow,
}

var boatsNearCmd = &cobra.Command{
	Use:   "near",
	Short: "List the boats closest to a position",
	Long: `List the boats closest to a position, nearest first.

The position defaults to map.home_latitude and map.home_longitude.`,
	Args: cobra.NoArgs,
	RunE: runBoatsNear,
}

var boatsSimilarCmd = &cobra.Command{
	Use:   "similar <boat-id>",
	Short: "List boats similar to a boat",
	Long: `List boats similar to a boat by type, price or length.

Price matches are within $100 a day; length matches within 2 feet.`,
	Args: cobra.ExactArgs(1),
	RunE: runBoatsSimilar,
}

var boatsUpdateCmd = &cobra.Command{
	Use:   "update <boat-id>",
	Short: "Edit a boat's name, price, length or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoatsUpdate,
}

var boatsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a boat",
	Long: `Add a boat. A type that does not exist yet is created.

Example:
  boatrental boats add --name "Dock Holiday" --type "Party Barge" --price 450 --length 28`,
	Args: cobra.NoArgs,
	RunE: runBoatsAdd,
}

var (
	boatsType     string
	boatsName     string
	boatsLimit    int
	boatsJSON     bool
	boatsLat      float64
	boatsLon      float64
	boatsBy       string
	boatsPrice    float64
	boatsLength   float64
	boatsYear     int
	boatsOwner    string
	boatsDesc     string
	boatsImageURL string
)

func init() {
	rootCmd.AddCommand(boatsCmd)
	boatsCmd.AddCommand(boatsListCmd, boatsShowCmd, boatsNearCmd, boatsSimilarCmd, boatsUpdateCmd, boatsAddCmd)

	boatsCmd.PersistentFlags().BoolVar(&boatsJSON, "json", false, "Print JSON instead of a table")

	boatsListCmd.Flags().StringVarP(&boatsType, "type", "t", "", "Boat type name or id")
	boatsListCmd.Flags().StringVar(&boatsName, "name", "", "Glob over boat names, e.g. '*fish*'")
	boatsListCmd.Flags().IntVarP(&boatsLimit, "limit", "n", -1, "Maximum boats to print (default: search.page_limit, 0 for all)")

	boatsNearCmd.Flags().StringVarP(&boatsType, "type", "t", "", "Only boats of this type")
	boatsNearCmd.Flags().Float64Var(&boatsLat, "lat", 0, "Latitude (default: map.home_latitude)")
	boatsNearCmd.Flags().Float64Var(&boatsLon, "lon", 0, "Longitude (default: map.home_longitude)")
	boatsNearCmd.Flags().IntVarP(&boatsLimit, "limit", "n", -1, "Maximum boats (default: map.near_me_limit)")

	boatsSimilarCmd.Flags().StringVar(&boatsBy, "by", "", "Match on Type, Price or Length (default: similar.default_by)")

	boatsUpdateCmd.Flags().StringVar(&boatsName, "name", "", "New name")
	boatsUpdateCmd.Flags().Float64Var(&boatsPrice, "price", 0, "New daily price")
	boatsUpdateCmd.Flags().Float64Var(&boatsLength, "length", 0, "New length in feet")
	boatsUpdateCmd.Flags().StringVar(&boatsDesc, "description", "", "New description")

	boatsAddCmd.Flags().StringVar(&boatsName, "name", "", "Boat name (required)")
	boatsAddCmd.Flags().StringVarP(&boatsType, "type", "t", "", "Boat type name (required)")
	boatsAddCmd.Flags().Float64Var(&boatsPrice, "price", 0, "Daily price")
	boatsAddCmd.Flags().Float64Var(&boatsLength, "length", 0, "Length in feet")
	boatsAddCmd.Flags().IntVar(&boatsYear, "year", 0, "Year built")
	boatsAddCmd.Flags().StringVar(&boatsOwner, "owner", "", "Owner name")
	boatsAddCmd.Flags().StringVar(&boatsDesc, "description", "", "Description")
	boatsAddCmd.Flags().StringVar(&boatsImageURL, "picture", "", "Picture URL")
	boatsAddCmd.Flags().Float64Var(&boatsLat, "lat", 0, "Mooring latitude")
	boatsAddCmd.Flags().Float64Var(&boatsLon, "lon", 0, "Mooring longitude")
	_ = boatsAddCmd.MarkFlagRequired("name")
	_ = boatsAddCmd.MarkFlagRequired("type")
}

// resolveType turns a user-typed type name into a type id. Empty means all
// types.
func resolveType(ctx context.Context, svc boat.TypeLister, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}
	types, err := svc.BoatTypes(ctx)
	if err != nil {
		return "", err
	}
	t, ok := boat.FindType(types, query)
	if !ok {
		return "", fmt.Errorf("%w: %q", errors.ErrBoatTypeNotFound, query)
	}
	return t.ID, nil
}

func runBoatsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	typeID, err := resolveType(ctx, env.svc, boatsType)
	if err != nil {
		return err
	}
	filter := boat.Filter{TypeID: typeID, Name: boatsName}
	if err := filter.Validate(); err != nil {
		return err
	}

	deps, notices := env.viewDeps(cmd.ErrOrStderr())
	list := views.NewListView(env.svc, deps)
	defer list.Close()
	list.SetFilter(filter)
	if err := notices.Err(); err != nil {
		return err
	}

	boats := list.Boats()
	limit := boatsLimit
	if limit < 0 {
		limit = env.cfg.Search.PageLimit
	}
	if limit > 0 && len(boats) > limit {
		boats = boats[:limit]
	}

	if boatsJSON {
		return printJSON(out, boats)
	}
	printBoats(out, boats)
	return nil
}

func runBoatsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	boatID := args[0]

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	deps, notices := env.viewDeps(cmd.ErrOrStderr())
	reviews := views.NewReviewsView(env.svc, deps)
	detail := views.NewPinnedDetailView(boatID, env.svc, reviews, deps)
	defer detail.Close()
	if err := notices.Err(); err != nil {
		return err
	}

	b, ok := detail.Boat()
	if !ok {
		return errors.NewNotFoundError("boat", boatID)
	}
	summary, err := env.store.Summary(ctx, boatID)
	if err != nil {
		return err
	}

	if boatsJSON {
		return printJSON(out, struct {
			boat.Boat
			Reviews       int     `json:"reviews"`
			AverageRating float64 `json:"average_rating"`
		}{b, summary.Count, summary.Average})
	}
	printBoat(out, b, summary.Count, summary.Average)
	return nil
}

func printBoat(out io.Writer, b boat.Boat, reviews int, average float64) {
	rows := [][]string{
		{"ID", b.ID},
		{"Name", b.Name},
		{"Type", b.TypeName},
		{"Owner", b.OwnerName},
		{"Price", boat.FormatPrice(b.Price) + " / day"},
		{"Length", boat.FormatLength(b.Length)},
		{"Location", fmt.Sprintf("%.4f, %.4f", b.Location.Latitude, b.Location.Longitude)},
		{"Rating", fmt.Sprintf("%.1f (%d reviews)", average, reviews)},
	}
	if b.Year != 0 {
		rows = append(rows, []string{"Year", fmt.Sprint(b.Year)})
	}
	if b.Description != "" {
		rows = append(rows, []string{"About", b.Description})
	}
	printTable(out, []string{"Field", "Value"}, rows)
}

func runBoatsNear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	at := boat.Location{Latitude: env.cfg.Map.HomeLatitude, Longitude: env.cfg.Map.HomeLongitude}
	if cmd.Flags().Changed("lat") {
		at.Latitude = boatsLat
	}
	if cmd.Flags().Changed("lon") {
		at.Longitude = boatsLon
	}
	if err := at.Validate(); err != nil {
		return err
	}
	limit := boatsLimit
	if limit < 0 {
		limit = env.cfg.Map.NearMeLimit
	}

	typeID, err := resolveType(ctx, env.svc, boatsType)
	if err != nil {
		return err
	}

	deps, notices := env.viewDeps(cmd.ErrOrStderr())
	near := views.NewNearMeView(env.store, views.FixedLocator(at), limit, deps)
	defer near.Close()
	near.Load(typeID)
	if err := notices.Err(); err != nil {
		return err
	}

	if boatsJSON {
		type nearBoat struct {
			boat.Boat
			Miles float64 `json:"miles"`
		}
		result := make([]nearBoat, 0, len(near.Boats()))
		for _, b := range near.Boats() {
			result = append(result, nearBoat{b, near.Distance(b)})
		}
		return printJSON(out, result)
	}

	if len(near.Boats()) == 0 {
		fmt.Fprintln(out, "No boats found.")
		return nil
	}
	fmt.Fprintf(out, "%s (%.4f, %.4f)\n", boat.YouAreHere, at.Latitude, at.Longitude)
	rows := make([][]string, 0, len(near.Boats()))
	for _, b := range near.Boats() {
		rows = append(rows, []string{b.ID, b.Name, b.TypeName, boat.FormatPrice(b.Price), boat.FormatMiles(near.Distance(b))})
	}
	printTable(out, []string{"ID", "Name", "Type", "Price", "Distance"}, rows)
	return nil
}

func runBoatsSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	byName := boatsBy
	if byName == "" {
		byName = env.cfg.Similar.DefaultBy
	}
	by, err := boat.ParseSimilarBy(byName)
	if err != nil {
		return err
	}

	deps, notices := env.viewDeps(cmd.ErrOrStderr())
	similar := views.NewSimilarView(args[0], by, env.store, deps)
	defer similar.Close()
	similar.Load()
	if err := notices.Err(); err != nil {
		return err
	}

	if boatsJSON {
		return printJSON(out, similar.Boats())
	}
	fmt.Fprintln(out, similar.Title())
	printBoats(out, similar.Boats())
	return nil
}

func runBoatsUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	patch := boat.Patch{ID: args[0]}
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &boatsName
	}
	if flags.Changed("price") {
		patch.Price = &boatsPrice
	}
	if flags.Changed("length") {
		patch.Length = &boatsLength
	}
	if flags.Changed("description") {
		patch.Description = &boatsDesc
	}
	if patch.Empty() {
		return fmt.Errorf("nothing to update: pass --name, --price, --length or --description")
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	deps, notices := env.viewDeps(out)
	list := views.NewListView(env.svc, deps)
	defer list.Close()
	list.Save([]boat.Patch{patch})

	for _, ve := range list.SaveErrors() {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ve.Error())
	}
	return notices.Err()
}

func runBoatsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	t, err := env.store.EnsureBoatType(ctx, boatsType)
	if err != nil {
		return err
	}
	b, err := env.store.CreateBoat(ctx, boat.Boat{
		Name:        strings.TrimSpace(boatsName),
		TypeID:      t.ID,
		TypeName:    t.Name,
		OwnerName:   boatsOwner,
		Price:       boatsPrice,
		Length:      boatsLength,
		Year:        boatsYear,
		Description: boatsDesc,
		Picture:     boatsImageURL,
		Location:    boat.Location{Latitude: boatsLat, Longitude: boatsLon},
	})
	if err != nil {
		return err
	}
	env.logger.Info("boat added", "boat_id", b.ID, "type", t.Name)

	if boatsJSON {
		return printJSON(out, b)
	}
	fmt.Fprintf(out, "Added %s (%s) as %s\n", b.Name, t.Name, b.ID)
	return nil
}
