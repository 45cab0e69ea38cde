package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/belnav/belnav/client"
)

func newPathsCmd() *cobra.Command {
	var qf queryFlags
	var method string
	var undirected bool

	cmd := &cobra.Command{
		Use:   "paths <source> <target>",
		Short: "Find paths between two nodes of the filtered subgraph",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			qa, err := qf.build()
			if err != nil {
				fatal("paths", err)
			}
			paths, err := apiClient.Paths.Find(context.Background(), qa, args[0], args[1], method, undirected)
			if err != nil {
				fatal("paths", err)
			}
			if flagFmt == "table" {
				headers := []string{"#", "HOPS", "PATH"}
				var rows [][]string
				for i, p := range paths {
					rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(len(p) - 1), strings.Join(p, " -> ")})
				}
				formatTable(headers, rows)
				return
			}
			output(paths, strconv.Itoa(len(paths)))
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVar(&method, "method", client.PathsShortest, "Search method: shortest|all")
	cmd.Flags().BoolVar(&undirected, "undirected", false, "Ignore edge direction")
	return cmd
}

func newCentralityCmd() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "centrality <k>",
		Short: "Rank the k most central nodes of the filtered subgraph",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				fatal("centrality", err)
			}
			qa, err := qf.build()
			if err != nil {
				fatal("centrality", err)
			}
			ranked, err := apiClient.Centrality.TopK(context.Background(), qa, k)
			if err != nil {
				fatal("centrality", err)
			}
			if flagFmt == "table" {
				headers := []string{"RANK", "NODE"}
				var rows [][]string
				for i, id := range ranked {
					rows = append(rows, []string{strconv.Itoa(i + 1), id})
				}
				formatTable(headers, rows)
				return
			}
			output(ranked, strconv.Itoa(len(ranked)))
		},
	}

	qf.register(cmd)
	return cmd
}
