package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/belnav/belnav/client"
)

func newNetworkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Network listing and subgraph queries",
	}
	cmd.AddCommand(networkListCmd())
	cmd.AddCommand(networkSummaryCmd())
	cmd.AddCommand(networkQueryCmd())
	cmd.AddCommand(networkExportCmd())
	cmd.AddCommand(networkNodeCmd())
	return cmd
}

func networkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded networks",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			list, err := apiClient.Networks.List(context.Background())
			if err != nil {
				fatal("list networks", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "NODES", "EDGES"}
				var rows [][]string
				for _, n := range list {
					rows = append(rows, []string{strconv.FormatInt(n.ID, 10), n.Name, strconv.Itoa(n.Nodes), strconv.Itoa(n.Edges)})
				}
				formatTable(headers, rows)
				return
			}
			output(list, "")
		},
	}
}

func networkSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <id>",
		Short: "Show relation and function counts of a network",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fatal("summary", fmt.Errorf("id must be an integer: %q", args[0]))
			}
			info, err := apiClient.Networks.Summary(context.Background(), id)
			if err != nil {
				fatal("summary", err)
			}
			output(info, strconv.FormatInt(info.ID, 10))
		},
	}
}

func networkQueryCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run the subgraph query pipeline",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			qa, err := qf.build()
			if err != nil {
				fatal("query", err)
			}
			g, err := apiClient.Networks.Subgraph(context.Background(), qa)
			if err != nil {
				fatal("query", err)
			}
			if flagFmt == "table" {
				printNodeTable(g.Nodes)
				return
			}
			output(g, fmt.Sprintf("%d nodes %d edges", len(g.Nodes), len(g.Links)))
		},
	}
	qf.register(cmd)
	return cmd
}

func networkExportCmd() *cobra.Command {
	var qf queryFlags
	var exportFmt, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run the query pipeline and export the serialized result",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			qa, err := qf.build()
			if err != nil {
				fatal("export", err)
			}
			data, err := apiClient.Networks.Export(context.Background(), qa, exportFmt)
			if err != nil {
				fatal("export", err)
			}
			if outPath == "" || outPath == "-" {
				if _, err := os.Stdout.Write(data); err != nil {
					fatal("export", err)
				}
				return
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				fatal("export", err)
			}
			fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(data), outPath)
		},
	}
	qf.register(cmd)
	cmd.Flags().StringVar(&exportFmt, "as", "bytes", "Export format")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file (- for stdout)")
	return cmd
}

func networkNodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "node <id>",
		Short: "Fetch a single node",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			node, err := apiClient.Networks.Node(context.Background(), args[0])
			if err != nil {
				fatal("node", err)
			}
			output(node, node.ID)
		},
	}
}

func printNodeTable(nodes []client.Node) {
	headers := []string{"ID", "CNAME", "FUNCTION", "NAMESPACE"}
	var rows [][]string
	for _, n := range nodes {
		rows = append(rows, []string{n.ID, n.CName, n.Function, n.Namespace})
	}
	formatTable(headers, rows)
}
