package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"routewise/internal/score"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available scoring presets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range score.Presets() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
