// Package cmd contains code for the `tabdl` CLI tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/tabdl/internal/log"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tabdl",
	Short: "Downloads tabular data",
	Long: heredoc.Doc(`
		tabdl downloads tabular data (CSV files, HTML tables) from the web,
		and reports every fetch as a uniform outcome with a stable exit code:
		0 for success, 1 for a generic failure, 2 for a timeout.

		Examples:

		  # Download a CSV file and print a summary
		  tabdl get https://example.com/data.csv
	`),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.LogError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tabdl.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "d", false, "Use verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.LogFatal(err)
		}

		// Search config in home directory with name ".tabdl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tabdl")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
