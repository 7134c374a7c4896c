package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-history-tools/internal/history"
)

var cfgFile string
var spotifyClientID string
var spotifyClientSecret string
var dataDir string
var cachePath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-history-tools",
	Short: "Performs analysis on Spotify extended streaming history",
	Long: `Reads the Streaming_History_Audio*.json files from a Spotify
extended streaming history export and produces listening reports.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-history-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&dataDir, "data", "d", "", "Directory containing the Streaming_History_Audio*.json export files")
	rootCmd.MarkPersistentFlagRequired("data")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.PersistentFlags().StringVar(
		&cachePath, "cache", "./metadata-cache.db", "Path to the SQLite metadata cache")
	viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))

	rootCmd.PersistentFlags().StringVar(
		&spotifyClientID, "client_id", "", "Spotify API client ID")
	viper.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client_id"))

	rootCmd.PersistentFlags().StringVar(
		&spotifyClientSecret, "client_secret", "", "Spotify API client secret")
	viper.BindPFlag("client_secret", rootCmd.PersistentFlags().Lookup("client_secret"))
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
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-history-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-history-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// loadEvents reads the export from the data directory and prints the load
// summary before handing the table back.
func loadEvents() ([]history.Event, error) {
	events, loadReport, err := history.LoadDir(viper.GetString("data"))
	if err != nil {
		return nil, fmt.Errorf("loading streaming history: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d events from %d files (%d dropped, %d duplicates)\n",
		len(events), loadReport.Files, loadReport.Dropped, loadReport.Duplicates)
	return events, nil
}
