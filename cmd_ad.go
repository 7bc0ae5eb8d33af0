package main

import (
	"encoding/json"
	"errors"

	"ai_writer_tools/adgate"
	"ai_writer_tools/config"

	"github.com/spf13/cobra"
)

var adCmd = &cobra.Command{
	Use:   "ad",
	Short: "Inspect or reset the sponsor link counter",
}

var adClickCmd = &cobra.Command{
	Use:   "click",
	Short: "Record one generate click and print the decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, err := loadCounter(adgate.DefaultKey)
		if err != nil {
			return err
		}
		return printJSON(cmd, gate.RecordClick(cmd.Context()))
	},
}

var adStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the persisted counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, err := loadCounter(adgate.DefaultKey)
		if err != nil {
			return err
		}
		return printJSON(cmd, gate.State(cmd.Context()))
	},
}

var adResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the text-tool and image-tool counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		for _, key := range []string{adgate.DefaultKey, adgate.ImageToolsKey} {
			gate, err := loadCounter(key)
			if err != nil {
				return err
			}
			errs = append(errs, gate.Reset(cmd.Context()))
		}
		return errors.Join(errs...)
	},
}

func init() {
	adCmd.AddCommand(adClickCmd, adStateCmd, adResetCmd)
}

func loadCounter(key string) (*adgate.Counter, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}
	return buildCounter(cfg, store, key)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
