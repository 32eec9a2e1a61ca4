package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"audioboard-go/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write board profiles",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective profile as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := yaml.Marshal(profile)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init PATH",
	Short: "Write the default profile to PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.Default(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile written to %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
