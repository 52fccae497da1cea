package main

import (
	"fmt"

	"github.com/spf13/cobra"
	yamlv2 "gopkg.in/yaml.v2"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *a.cfg
			// Секреты не показываем
			if shown.Telegram.BotToken != "" {
				shown.Telegram.BotToken = "***"
			}
			if shown.Redis.Password != "" {
				shown.Redis.Password = "***"
			}

			out, err := yamlv2.Marshal(shown)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	return cmd
}
