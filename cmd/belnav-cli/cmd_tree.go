package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the annotation tree of the filtered subgraph",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			qa, err := qf.build()
			if err != nil {
				fatal("tree", err)
			}
			entries, err := apiClient.Tree.Get(context.Background(), qa)
			if err != nil {
				fatal("tree", err)
			}
			if flagFmt == "table" {
				for _, e := range entries {
					values := make([]string, len(e.Children))
					for i, c := range e.Children {
						values[i] = c.Text
					}
					fmt.Printf("%s: %s\n", e.Text, strings.Join(values, ", "))
				}
				return
			}
			output(entries, "")
		},
	}

	qf.register(cmd)
	cmd.AddCommand(treeBlacklistCmd())
	return cmd
}

func treeBlacklistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blacklist",
		Short: "List reserved query keys never offered as annotation names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			keys, err := apiClient.Tree.Blacklist(context.Background())
			if err != nil {
				fatal("blacklist", err)
			}
			output(keys, strings.Join(keys, " "))
		},
	}
}

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Typeahead lookups",
	}
	cmd.AddCommand(suggestSubCmd("nodes", "Suggest node names"))
	cmd.AddCommand(suggestSubCmd("authors", "Suggest citation authors"))
	cmd.AddCommand(suggestSubCmd("pubmed", "Suggest PubMed references"))
	return cmd
}

func suggestSubCmd(kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <query>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			lookup := apiClient.Suggest.Nodes
			switch kind {
			case "authors":
				lookup = apiClient.Suggest.Authors
			case "pubmed":
				lookup = apiClient.Suggest.Pubmeds
			}

			hits, err := lookup(ctx, args[0])
			if err != nil {
				fatal("suggest "+kind, err)
			}
			output(hits, "")
		},
	}
}
