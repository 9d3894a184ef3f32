package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/testutil"
)

// resetFlags puts every flag of c and its subcommands back to its default,
// since cobra commands and their flag variables are package globals.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupTestEnvironment points the config directory at a temp dir and
// resets global command state.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupConfigDir(t)

	viper.Reset()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	resetFlags(rootCmd)
	t.Cleanup(func() {
		viper.Reset()
		resetFlags(rootCmd)
	})
	return dir
}

// executeCommand runs the root command with args and returns captured output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, args...)
	require.NoError(t, err, out)
	return out
}

func decodeBoats(t *testing.T, out string) []boat.Boat {
	t.Helper()
	var boats []boat.Boat
	require.NoError(t, json.Unmarshal([]byte(out), &boats), out)
	return boats
}

func ids(boats []boat.Boat) []string {
	out := make([]string, 0, len(boats))
	for _, b := range boats {
		out = append(out, b.ID)
	}
	return out
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "boatrental", rootCmd.Use)

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"browse", "boats", "reviews", "types", "seed", "serve", "config", "logs"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestBoatsList(t *testing.T) {
	setupTestEnvironment(t)

	out := mustExecute(t, "boats", "list")
	assert.Contains(t, out, "Sea Breeze")
	assert.Contains(t, out, "Liquid Asset")
	assert.Contains(t, out, "2,400.00")
}

func TestBoatsList_TypeTypo(t *testing.T) {
	setupTestEnvironment(t)

	boats := decodeBoats(t, mustExecute(t, "boats", "list", "--type", "fishng", "--json"))
	assert.ElementsMatch(t, []string{"b-salty-dog", "b-reel-deal"}, ids(boats))
}

func TestBoatsList_NameAndLimit(t *testing.T) {
	setupTestEnvironment(t)

	boats := decodeBoats(t, mustExecute(t, "boats", "list", "--name", "*reel*", "--json"))
	assert.Equal(t, []string{"b-reel-deal"}, ids(boats))

	boats = decodeBoats(t, mustExecute(t, "boats", "list", "--limit", "2", "--json"))
	assert.Len(t, boats, 2)
}

func TestBoatsList_UnknownType(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand(t, "boats", "list", "--type", "submarine")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBoatTypeNotFound))
}

func TestBoatsShow(t *testing.T) {
	setupTestEnvironment(t)

	out := mustExecute(t, "boats", "show", "b-sea-breeze")
	assert.Contains(t, out, "Sea Breeze")
	assert.Contains(t, out, "Sailboat")

	_, err := executeCommand(t, "boats", "show", "b-nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBoatsUpdate(t *testing.T) {
	setupTestEnvironment(t)

	out := mustExecute(t, "boats", "update", "b-salty-dog", "--price", "325", "--name", "Salty Dog II")
	assert.Contains(t, out, "Ship it!")

	var shown struct {
		boat.Boat
		Reviews int `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "boats", "show", "b-salty-dog", "--json")), &shown))
	assert.Equal(t, "Salty Dog II", shown.Name)
	assert.InDelta(t, 325.0, shown.Price, 0.001)
	assert.InDelta(t, 24.0, shown.Length, 0.001)
}

func TestBoatsUpdate_Rejected(t *testing.T) {
	setupTestEnvironment(t)

	out, err := executeCommand(t, "boats", "update", "b-salty-dog", "--length=-1")
	require.Error(t, err)
	assert.Contains(t, out, "Length must be positive")

	_, err = executeCommand(t, "boats", "update", "b-salty-dog")
	assert.Error(t, err)
}

func TestBoatsAdd(t *testing.T) {
	setupTestEnvironment(t)

	out := mustExecute(t, "boats", "add", "--name", "Dock Holiday", "--type", "canoe",
		"--price", "90", "--length", "16", "--lat", "37.80", "--lon", "-122.40")
	assert.Contains(t, out, "Added Dock Holiday (Canoe)")

	assert.Contains(t, mustExecute(t, "types"), "Canoe")

	boats := decodeBoats(t, mustExecute(t, "boats", "list", "--type", "Canoe", "--json"))
	require.Len(t, boats, 1)
	assert.Equal(t, "Dock Holiday", boats[0].Name)
}

func TestBoatsNear(t *testing.T) {
	setupTestEnvironment(t)

	var near []struct {
		ID    string  `json:"id"`
		Miles float64 `json:"miles"`
	}
	out := mustExecute(t, "boats", "near", "--limit", "3", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &near), out)
	require.Len(t, near, 3)
	for i := 1; i < len(near); i++ {
		assert.LessOrEqual(t, near[i-1].Miles, near[i].Miles)
	}

	_, err := executeCommand(t, "boats", "near", "--lat", "95")
	assert.Error(t, err)
}

func TestBoatsSimilar(t *testing.T) {
	setupTestEnvironment(t)

	boats := decodeBoats(t, mustExecute(t, "boats", "similar", "b-salty-dog", "--by", "Type", "--json"))
	assert.Equal(t, []string{"b-reel-deal"}, ids(boats))

	out := mustExecute(t, "boats", "similar", "b-salty-dog", "--by", "Price")
	assert.Contains(t, out, "Similar boats by Price")

	_, err := executeCommand(t, "boats", "similar", "b-salty-dog", "--by", "Color")
	assert.Error(t, err)
}

func TestReviewsAddAndList(t *testing.T) {
	setupTestEnvironment(t)

	out := mustExecute(t, "reviews", "add", "b-sea-breeze",
		"--subject", "Great boat", "--comment", "Smooth ride", "--rating", "4", "--author", "tester")
	assert.Contains(t, out, "Review Created!")

	var reviews []boat.Review
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "reviews", "list", "b-sea-breeze", "--json")), &reviews))
	var found *boat.Review
	for i := range reviews {
		if reviews[i].Subject == "Great boat" {
			found = &reviews[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 4, found.Rating)
	assert.Equal(t, "tester", found.CreatedByName)

	assert.Contains(t, mustExecute(t, "reviews", "list", "b-sea-breeze"), "★★★★☆ Great boat")
}

func TestReviewsAdd_Rejected(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand(t, "reviews", "add", "b-sea-breeze", "--rating", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Subject is required")

	_, err = executeCommand(t, "reviews", "add", "b-sea-breeze", "--subject", "Too good", "--rating", "7")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = executeCommand(t, "reviews", "add", "b-nope", "--subject", "Ghost ship")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSeed(t *testing.T) {
	setupTestEnvironment(t)

	out := mustExecute(t, "seed")
	assert.Contains(t, out, "7 boats")

	out = mustExecute(t, "seed")
	assert.Contains(t, out, "nothing seeded")

	file := testutil.WriteFile(t, "fleet.yaml", `types: [Kayak]
boats:
  - id: b-paddle-on
    name: Paddle On
    type: Kayak
    price: 40
    length: 12
    location: {latitude: 37.80, longitude: -122.41}
`)
	out = mustExecute(t, "seed", "--file", file, "--force")
	assert.Contains(t, out, "1 boats")

	boats := decodeBoats(t, mustExecute(t, "boats", "list", "--type", "kayak", "--json"))
	assert.Equal(t, []string{"b-paddle-on"}, ids(boats))
}

func TestSeed_RejectsUnknownKeys(t *testing.T) {
	setupTestEnvironment(t)

	file := testutil.WriteFile(t, "fleet.yaml", "boats: []\nships: []\n")
	_, err := executeCommand(t, "seed", "--file", file)
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	dir := setupTestEnvironment(t)

	out := mustExecute(t, "config", "show")
	assert.Contains(t, out, "theme: default")
	assert.Contains(t, out, "near_me_limit: 10")

	out = mustExecute(t, "config", "set", "tui.theme", "storm")
	assert.Contains(t, out, "Set tui.theme = storm")
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: storm")

	_, err = executeCommand(t, "config", "set", "tui.theme", "neon")
	assert.Error(t, err)
	_, err = executeCommand(t, "config", "set", "tui.colour", "storm")
	assert.Error(t, err)

	assert.Contains(t, mustExecute(t, "config", "path"), "BOATRENTAL_")
}

func TestConfigInit(t *testing.T) {
	dir := setupTestEnvironment(t)

	out := mustExecute(t, "config", "init")
	assert.Contains(t, out, "Created config file")
	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	_, err = executeCommand(t, "config", "init")
	assert.Error(t, err)
}

func TestInvalidConfigIsReported(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("BOATRENTAL_TUI_THEME", "neon")

	_, err := executeCommand(t, "types")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLogs(t *testing.T) {
	setupTestEnvironment(t)

	mustExecute(t, "types")

	out := mustExecute(t, "logs", "--grep", "seeded empty store", "-n", "0")
	assert.Contains(t, out, "seeded empty store")

	out = mustExecute(t, "logs", "--boat", "b-does-not-exist")
	assert.Contains(t, out, "No matching log entries.")

	_, err := executeCommand(t, "logs", "--since", "yesterday")
	assert.Error(t, err)
}
