package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/belnav/belnav/client"
)

// queryFlags is the shared flag set of every command that runs the subgraph
// query pipeline.
type queryFlags struct {
	graphID     int64
	seedMethod  string
	nodes       []string
	authors     []string
	pmids       []string
	appendNodes []string
	removeNodes []string
	annotations []string
}

func (qf *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&qf.graphID, "graph", 0, "Network id (0 = merged universe)")
	cmd.Flags().StringVar(&qf.seedMethod, "seed-method", "", "Seed method: induction|neighbors|dneighbors|shortest_paths|provenance")
	cmd.Flags().StringSliceVar(&qf.nodes, "node", nil, "Seed node id (repeatable)")
	cmd.Flags().StringSliceVar(&qf.authors, "author", nil, "Seed citation author (repeatable)")
	cmd.Flags().StringSliceVar(&qf.pmids, "pmid", nil, "Seed PubMed reference (repeatable)")
	cmd.Flags().StringSliceVar(&qf.appendNodes, "append", nil, "Node to append after filtering (repeatable)")
	cmd.Flags().StringSliceVar(&qf.removeNodes, "remove", nil, "Node to remove after filtering (repeatable)")
	cmd.Flags().StringArrayVar(&qf.annotations, "annotation", nil, "Annotation filter KEY=VALUE (repeatable)")
}

// build translates the flags into query arguments. Annotation filters use
// KEY=VALUE form; repeating a key ORs its values.
func (qf *queryFlags) build() (client.QueryArgs, error) {
	args := client.QueryArgs{
		GraphID:    qf.graphID,
		SeedMethod: qf.seedMethod,
		SeedNodes:  qf.nodes,
		Authors:    qf.authors,
		Pmids:      qf.pmids,
		Append:     qf.appendNodes,
		Remove:     qf.removeNodes,
	}

	for _, raw := range qf.annotations {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || key == "" || value == "" {
			return client.QueryArgs{}, fmt.Errorf("annotation %q is not KEY=VALUE", raw)
		}
		if args.Annotations == nil {
			args.Annotations = map[string][]string{}
		}
		args.Annotations[key] = append(args.Annotations[key], value)
	}

	return args, nil
}
