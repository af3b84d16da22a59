package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skorlabs/skorstaking/pkg"
)

const (
	defaultConfigFileName = "config.yml"
	// configPathEnv overrides the default of --config.
	configPathEnv = "SKORSTAKING_CONFIG"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "skorstaking",
		Short:         "Token staking ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Setup() error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	defaultConfigPath := pkg.Getenv(configPathEnv, getDefaultConfigFile(homePath, defaultConfigFileName))

	rootCmd.AddCommand(StartServerCmd())
	rootCmd.AddCommand(InitializeCmd())
	rootCmd.AddCommand(PauseStakingCmd())
	rootCmd.AddCommand(SetMonthlyCapCmd())
	rootCmd.AddCommand(FundRewardsCmd())
	rootCmd.AddCommand(DumpStakesCmd())
	rootCmd.AddCommand(MintTokensCmd())
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))
	rootCmd.PersistentFlags().String("keypair", "", "signing keypair file, overrides staking.admin-keypair")

	return rootCmd.Execute()
}

func getDefaultConfigFile(homePath, filename string) string {
	return filepath.Join(homePath, filename)
}

func GetConfigPath() string {
	return cfgPath
}
