// Package cmd implements the boatrental command line.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Josh-Grafman/boatrental/internal/cmd/config"
	appconfig "github.com/Josh-Grafman/boatrental/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "boatrental",
	Short: "Browse, review and manage rental boats",
	Long: `Boatrental is a terminal boat-rental browser.

Search boats by type, pick one from the results, see its details, where it
is moored, its reviews and similar boats, and add a review with a star
rating. Run without a subcommand to open the browser.`,
	SilenceUsage: true,
	RunE:         runBrowse,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/boatrental/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	config.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BOATRENTAL")
	// e.g., BOATRENTAL_STORE_PATH for store.path
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
