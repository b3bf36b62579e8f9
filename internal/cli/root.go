// Package cli implements the ferry command line interface.
package cli

import (
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Name is the command name.
	Name = "ferry"

	configDir  = ".ferry"
	configName = "config"
	envPrefix  = "FERRY"
)

var vip = viper.New()

// Init wires the root command flags and config loading.
func Init(rootCmd *cobra.Command) {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Int("workers", 4, "Number of concurrent transfer workers")
	rootCmd.PersistentFlags().String("region", "", "AWS region")
	rootCmd.PersistentFlags().String("endpoint", "", "Custom endpoint URL for S3-compatible services")
	rootCmd.PersistentFlags().Bool("path-style", false, "Use path-style bucket addressing")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress progress output")

	for _, flag := range []string{"workers", "region", "endpoint", "path-style", "quiet"} {
		if err := vip.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			Fatal(err)
		}
	}

	rootCmd.AddCommand(cpCmd, mvCmd)
}

// initConfig reads ~/.ferry/config.yml and FERRY_* environment variables.
// Flags take priority, then env, then the config file.
func initConfig() {
	home, err := homedir.Dir()
	if err == nil {
		vip.AddConfigPath(filepath.Join(home, configDir))
	}
	vip.AddConfigPath(".")
	vip.SetConfigName(configName)
	vip.SetConfigType("yaml")

	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	_ = vip.ReadInConfig() // missing config file is fine
}

// RootCmd is the ferry root command.
var RootCmd = &cobra.Command{
	Use:   Name,
	Short: "Bucket transfer tool",
	Long: `The bucket transfer tool.

Copies and moves files between the local filesystem and an object storage
bucket. Locations are given as "bucket:path"; the side naming a bucket
determines the transfer direction.`,
	Args: cobra.ExactArgs(0),
}
