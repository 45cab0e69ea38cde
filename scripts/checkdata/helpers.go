package main

import (
	"fmt"
	"os"
)

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// printReport outputs the final preflight summary.
func printReport(r *report) {
	fmt.Println()
	fmt.Println("=== belnav Data Preflight ===")
	if r.Strict {
		fmt.Println("MODE: STRICT (defects are fatal)")
	}
	fmt.Printf("Directory: %s\n", r.Dir)
	fmt.Printf("Files: %d scanned → %d loadable → %d in catalog %s\n",
		r.FilesScanned, len(r.Files), r.LoadedCount, statusIcon(len(r.Files), r.LoadedCount))
	fmt.Printf("Universe: %d nodes, %d edges\n", r.UniverseNodes, r.UniverseEdges)

	if len(r.Broken) > 0 {
		fmt.Println("\nBroken files (skipped by the loader, id slot left empty):")
		for _, b := range r.Broken {
			fmt.Printf("  - %s (%s)\n", b.Path, b.Reason)
		}
	}

	for _, f := range r.Files {
		defects := f.DupNodeIDs + f.EmptyNodeIDs + len(f.Dangling)
		if defects == 0 && f.MissingCNames == 0 {
			continue
		}
		fmt.Printf("\n%s (id %d):\n", f.File, f.NetworkID)
		if f.DupNodeIDs > 0 {
			fmt.Printf("  - %d duplicate node ids (first definition wins)\n", f.DupNodeIDs)
		}
		if f.EmptyNodeIDs > 0 {
			fmt.Printf("  - %d nodes with empty ids (dropped)\n", f.EmptyNodeIDs)
		}
		if f.MissingCNames > 0 {
			fmt.Printf("  - %d nodes without a cname (blank labels in clients)\n", f.MissingCNames)
		}
		for _, d := range f.Dangling {
			fmt.Printf("  - dangling edge %s → %s (%s)\n", d.Source, d.Target, d.Reason)
		}
	}

	if len(r.SpotChecks) > 0 {
		fmt.Println("\nCross checks:")
		for _, c := range r.SpotChecks {
			fmt.Printf("  %s\n", c)
		}
	}

	fmt.Printf("\nDuration: %.1fs\n", r.Duration.Seconds())
	switch {
	case r.Err != nil:
		fmt.Printf("Status: FAILED — %v\n", r.Err)
	case r.defectCount() > 0:
		fmt.Printf("Status: %d defects found\n", r.defectCount())
	default:
		fmt.Println("Status: CLEAN")
	}
}

// statusIcon returns a check or X based on count match.
func statusIcon(expected, got int) string {
	if expected == got {
		return "✅"
	}
	return "❌"
}
