package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	v1 "github.com/transformhub/service-router/internal/api/v1"
	"github.com/transformhub/service-router/internal/service"
)

const defaultMatchConcurrency = 8

// matchOutcome is one row of the match command output
type matchOutcome struct {
	Request string `json:"request"`
	v1.MatchResponse
}

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Choose the service for one or more request files",
		Long: `Choose the catalog service that would handle each request file.

Request files hold the same JSON body accepted by POST /v1/match. Media types
given with --accept apply to every request that does not carry its own accept list.
Requests are evaluated concurrently and reported in argument order.`,
		Args: cobra.NoArgs,
		RunE: runMatch,
	}
	addCatalogFlags(cmd)
	cmd.Flags().StringArray("request", nil, "Path to a request JSON file (repeatable, required)")
	cmd.Flags().StringSlice("accept", nil, "Accepted media types, most preferred first")
	cmd.Flags().String("format", formatTable, "Output format (table or json)")
	cmd.Flags().Int("concurrency", defaultMatchConcurrency, "Maximum number of requests evaluated at once")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	paths, err := flags.GetStringArray("request")
	if err != nil {
		return err
	}
	accept, err := flags.GetStringSlice("accept")
	if err != nil {
		return err
	}
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unsupported format %q", format)
	}
	concurrency, err := flags.GetInt("concurrency")
	if err != nil {
		return err
	}

	cat, source, err := loadCatalogFromFlags(ctx, cmd)
	if err != nil {
		return err
	}
	svc, err := service.New(ctx, service.NewStaticCatalogProvider(cat, source))
	if err != nil {
		return err
	}

	if stdinCount(paths) > 1 {
		return fmt.Errorf("stdin (-) may be given as --request only once")
	}

	outcomes := make([]matchOutcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			in, err := readMatchInput(cmd.InOrStdin(), path, accept)
			if err != nil {
				return err
			}
			result, err := svc.Match(gctx, in)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outcomes[i] = matchOutcome{Request: path, MatchResponse: v1.NewMatchResponse(result)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printOutcomes(cmd.OutOrStdout(), outcomes, format)
}

// readMatchInput decodes a request file, or stdin when path is "-".
// Unknown fields are rejected as they are by POST /v1/match.
// The file's own accept list wins over defaultAccept.
func readMatchInput(stdin io.Reader, path string, defaultAccept []string) (*service.MatchInput, error) {
	r := stdin
	if path != "-" {
		//nolint:gosec // paths come from the command line
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read request %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var body v1.MatchRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse request %s: %w", path, err)
	}

	accept := body.Accept
	if len(accept) == 0 {
		accept = defaultAccept
	}
	return &service.MatchInput{Request: &body.Request, Accept: accept}, nil
}

func printOutcomes(w io.Writer, outcomes []matchOutcome, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Request", "Service", "Type", "Output format", "Matched", "Degraded", "Message")
	for _, o := range outcomes {
		if err := table.Append([]string{
			o.Request,
			o.Service,
			o.Type.String(),
			o.OutputFormat,
			strconv.FormatBool(o.Matched),
			strconv.FormatBool(o.Degraded),
			o.Message,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func stdinCount(paths []string) int {
	n := 0
	for _, p := range paths {
		if p == "-" {
			n++
		}
	}
	return n
}
