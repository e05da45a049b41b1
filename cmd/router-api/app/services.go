package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/transformhub/service-router/internal/catalog"
)

func newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the services of a catalog in precedence order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, err := loadCatalogFromFlags(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			collection, err := cmd.Flags().GetString("collection")
			if err != nil {
				return err
			}

			services := cat.Services()
			if collection != "" {
				services = cat.ForCollection(collection)
			}
			return printServices(cmd.OutOrStdout(), services, format)
		},
	}
	addCatalogFlags(cmd)
	cmd.Flags().String("format", formatTable, "Output format (table or json)")
	cmd.Flags().String("collection", "", "Only list services accepting this collection id")
	return cmd
}

func printServices(w io.Writer, services []*catalog.ServiceDescriptor, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.Document{Services: services})
	case formatTable:
		table := tablewriter.NewWriter(w)
		table.Header("Name", "Type", "Collections", "Output formats", "Subsetting", "Reprojection")
		for _, svc := range services {
			if err := table.Append([]string{
				svc.Name,
				svc.Type.String(),
				strings.Join(svc.Collections, ", "),
				strings.Join(svc.Capabilities.OutputFormats, ", "),
				subsettingModes(svc.Capabilities.Subsetting),
				strconv.FormatBool(svc.Capabilities.Reprojection),
			}); err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func subsettingModes(s catalog.Subsetting) string {
	var modes []string
	if s.Variable {
		modes = append(modes, "variable")
	}
	if s.BBox {
		modes = append(modes, "bbox")
	}
	if s.Shape {
		modes = append(modes, "shape")
	}
	if len(modes) == 0 {
		return "-"
	}
	return strings.Join(modes, ", ")
}
