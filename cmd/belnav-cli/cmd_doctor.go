package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/belnav/belnav/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server, and loaded data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nbelnav doctor")
	fmt.Println("=============")

	var results []checkResult

	// 1. Config file.
	cfgPath, cfgErr := doctorConfigPath()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: false,
			Detail: cfgPath,
			Hint:   "Run: belnav init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 2. Server liveness.
	health, err := apiClient.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server", Passed: false,
			Detail: flagURL,
			Hint:   "Is the belnav server running? Try: DATA_DIR=./data belnav",
		})
		printChecks(results)
		return fmt.Errorf("doctor found problems")
	}
	results = append(results, checkResult{
		Name: "Server", Passed: true,
		Detail: fmt.Sprintf("%s (v%s)", flagURL, health.Version),
	})

	// 3. Readiness.
	if err := apiClient.Ready(ctx); err != nil {
		results = append(results, checkResult{
			Name: "Catalog", Passed: false,
			Detail: "data directory not loaded yet",
			Hint:   "Check the server log for load errors",
		})
	} else if health.Networks == 0 {
		results = append(results, checkResult{
			Name: "Catalog", Passed: true,
			Detail: "loaded, but holds no networks",
			Hint:   "Point DATA_DIR at a directory of node-link JSON files",
		})
	} else {
		results = append(results, checkResult{
			Name: "Catalog", Passed: true,
			Detail: fmt.Sprintf("%d networks, %d active sessions, %d viewers", health.Networks, health.Sessions, health.Viewers),
		})
	}

	// 4. Query pipeline round trip.
	if _, err := apiClient.Networks.Subgraph(ctx, client.QueryArgs{}); err != nil {
		results = append(results, checkResult{
			Name: "Query pipeline", Passed: false,
			Detail: err.Error(),
		})
	} else {
		results = append(results, checkResult{
			Name: "Query pipeline", Passed: true,
			Detail: "universe query answered",
		})
	}

	printChecks(results)

	for _, r := range results {
		if !r.Passed {
			return fmt.Errorf("doctor found problems")
		}
	}
	return nil
}

func printChecks(results []checkResult) {
	fmt.Println()
	for _, r := range results {
		if r.Passed {
			colGood.Print("  ✓ ")
		} else {
			colBad.Print("  ✗ ")
		}
		fmt.Printf("%-16s %s\n", r.Name, r.Detail)
		if r.Hint != "" {
			colDim.Printf("    hint: %s\n", r.Hint)
		}
	}
	fmt.Println()
}

func doctorConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	cfgPath := filepath.Join(home, ".belnav", "config.yaml")

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, err
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, err
	}
	return cfgPath, nil
}
