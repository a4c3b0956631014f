package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func queryCmd() *cobra.Command {
	var (
		limit  int
		source string
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Print the indexed chunks nearest to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			hits, err := store.Query(cmd.Context(), strings.Join(args, " "), limit, source)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of results")
	cmd.Flags().StringVar(&source, "source", "", "Only search chunks from this source")

	return cmd
}
