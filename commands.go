package main

import (
	"biosearch/app/graph/query"
	"biosearch/app/service/search"
	"biosearch/app/service/tabular"
	"biosearch/app/service/tool"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const exampleConcurrency = 4

func newSearchCmd(configPath *string) *cobra.Command {
	var (
		in     query.Input
		page   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run one graph search and print the rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			di, err := newInjector(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer di.Shutdown()

			svc := do.MustInvoke[*search.Service](di)

			res, err := svc.Search(cmd.Context(), "cli", in, page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}

			_, err = fmt.Fprintln(out, tool.FormatRows(res.Rows, res.Page))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Left.Attribute, "left-attr", "", "attribute of the left sample")
	f.StringVar(&in.Left.Value, "left-value", "", "value of the left sample attribute")
	f.StringVar(&in.Left.Reference, "left-ref", "", "archive referencing the left sample")
	f.StringVar(&in.Right.Attribute, "right-attr", "", "attribute of the right sample")
	f.StringVar(&in.Right.Value, "right-value", "", "value of the right sample attribute")
	f.StringVar(&in.Right.Reference, "right-ref", "", "archive referencing the right sample")
	f.StringVar(&in.Relationship, "rel", "", "relationship from left to right")
	f.IntVar(&page, "page", 1, "result page")
	f.BoolVar(&asJSON, "json", false, "print the query and rows as JSON")

	return cmd
}

func newExamplesCmd(configPath *string) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List the example queries, optionally running each against the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if !run {
				for _, ex := range query.Examples {
					data, err := json.Marshal(query.Build(ex.Input))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n  %s\n", ex.Title, data)
				}
				return nil
			}

			di, err := newInjector(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer di.Shutdown()

			svc := do.MustInvoke[*search.Service](di)

			var mu sync.Mutex
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(exampleConcurrency)

			for i, ex := range query.Examples {
				g.Go(func() error {
					res, err := svc.Search(ctx, fmt.Sprintf("example-%d", i), ex.Input, 1)
					if err != nil {
						return fmt.Errorf("example %q: %w", ex.Title, err)
					}

					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(out, "%-55s rows=%d total=%d\n", ex.Title, len(res.Rows), res.Page.Total)

					return nil
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "execute every example against the backend")

	return cmd
}

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the graph search tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			di, err := newInjector(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer di.Shutdown()

			searchTool := do.MustInvoke[*tool.SearchTool](di)

			return server.ServeStdio(tool.NewMCPServer(searchTool, version))
		},
	}
}

func newTSV2JSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tsv2json FILE",
		Short: "Convert a tab-delimited file to a JSON matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), tabular.Parse(string(data)))
		},
	}
}

func newJSON2TSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json2tsv FILE",
		Short: "Convert a JSON matrix to tab-delimited text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var matrix [][]string
			if err = json.Unmarshal(data, &matrix); err != nil {
				return fmt.Errorf("invalid JSON matrix: %w", err)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), tabular.Render(matrix))
			return err
		},
	}
}

// readInput reads the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	return os.ReadFile(name)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
