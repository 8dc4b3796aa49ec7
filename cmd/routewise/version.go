package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"routewise/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildinfo.Info()
		fmt.Printf("routewise version %s", info["version"])
		if info["commit"] != "" {
			fmt.Printf(" (%s)", info["commit"])
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
