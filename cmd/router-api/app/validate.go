package app

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/transformhub/service-router/internal/catalog"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a service catalog",
		Long: `Validate a service catalog against the catalog schema and the semantic rules
(unique names, namespace/name format, at least one collection, known type,
url parameter for http services). Granule ceilings above --max-granules are
reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, source, err := loadCatalogFromFlags(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			maxGranules, err := cmd.Flags().GetInt("max-granules")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range slices.Compact(catalog.CheckGranuleLimits(cat.Services(), maxGranules)) {
				if _, err := fmt.Fprintf(out, "warning: %s advertises more than %d granules\n", name, maxGranules); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "%s is valid: %d services\n", source, cat.Len())
			return err
		},
	}
	addCatalogFlags(cmd)
	cmd.Flags().Int("max-granules", 0, "System granule limit used for catalog warnings (0 disables)")
	return cmd
}
