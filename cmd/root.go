package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/interview/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "interview",
	Short: "Guided benefits interview",
	Long: `interview asks about your household, activity, housing, income and
assets, one question at a time, and prints a summary ready to be handed
over to a benefits calculator.

Questions are chosen either from the built-in step table (default) or by a
remote next-question service (--remote). Type :retour to go back,
:passer to skip an optional question, :recommencer to start over and
:quitter to leave.

It does not compute eligibility itself.`,
	RunE: runInterview,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/interview/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "interview")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	config.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
