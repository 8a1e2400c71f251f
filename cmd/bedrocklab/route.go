package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab/router"
)

var routeCmd = &cobra.Command{
	Use:   "route [query]",
	Short: "Explain which model tier a query routes to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		r := &router.QueryRouter{
			LiteThreshold: cfg.RouterLiteThreshold,
			ProThreshold:  cfg.RouterProThreshold,
		}
		decision := r.Route(strings.Join(args, " "))

		fmt.Printf("tier: %s\nmodel: %s\nscore: %d\n", decision.Tier, decision.ModelID, decision.Score)
		if len(decision.Signals) > 0 {
			fmt.Println("signals:")
			for _, signal := range decision.Signals {
				fmt.Printf("  - %s\n", signal)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}
