/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Banh-Canh/jtv/internal/config"
	"github.com/Banh-Canh/jtv/internal/utils"
)

var configFilePath string

var RootCmd = &cobra.Command{
	Use:   "jtv",
	Short: "Terminal client for Jellyfin",
	Long: `
jtv is a terminal client for Jellyfin media servers.

Browse libraries, search, play media in mpv, and keep watch
state in sync with the server.`,
}

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().
		StringVar(&configFilePath, "config", "", "config file (default is $XDG_CONFIG_HOME/jtv/config.yaml)")
}

func initConfig() {
	if configFilePath == "" {
		configDir, err := config.GetConfigDirPath()
		if err != nil {
			fmt.Printf("❌ Failed to resolve config directory: %v\n", err)
			os.Exit(1)
		}
		configFilePath = filepath.Join(configDir, "config.yaml")
	}

	config.CreateDefaultConfigFile(configFilePath)

	// The logger comes up before the config read so the read can log.
	// Its level is raised again below once the config is known.
	utils.InitializeLogger(zapcore.InfoLevel, utils.DefaultLogPath())

	if err := config.ReadConfig(configFilePath); err != nil {
		fmt.Printf("❌ Failed to read config: %v\n", err)
		os.Exit(1)
	}

	if level := utils.ParseLogLevel(viper.GetString("logLevel")); level != zapcore.InfoLevel {
		utils.InitializeLogger(level, utils.DefaultLogPath())
	}
	utils.Logger.Debug("Config loaded.", zap.String("filePath", configFilePath))
}
