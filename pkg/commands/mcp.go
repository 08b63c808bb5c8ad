package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/buttercsv/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var transport, addr, path string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the working session over the Model Context Protocol.",
		Long: `Launch an MCP server that exposes the loaded session: paging, search,
edits, text checks and rebuilds.`,
		Example: `
buttercsv mcp
buttercsv mcp --addr 127.0.0.1:0
buttercsv mcp --transport stdio
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mcp.ParseTransport(transport)
			if err != nil {
				return err
			}
			p, err := persistence()
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true
			r := mcp.Runner{
				Config:      cfg,
				Persistence: p,
				Version:     "dev",
				Transport:   t,
				Addr:        addr,
				Path:        path,
				OnListening: func(url string) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", url)
				},
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "Transport to use: http or stdio.")
	cmd.Flags().StringVar(&addr, "addr", mcp.DefaultAddr, "Listen address for the HTTP transport; port 0 picks a free port.")
	cmd.Flags().StringVar(&path, "path", mcp.DefaultPath, "HTTP endpoint path.")

	topLevel.AddCommand(cmd)
}
