package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/belnav/belnav/client"
)

func newInitCmd() *cobra.Command {
	var initURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up belnav CLI configuration",
		Long:  "Interactive setup that creates ~/.belnav/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initURL, initURL != "")
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	return cmd
}

func runInit(url string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Println("\n  belnav setup")
		fmt.Println("  ------------")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			url = line
		}
	}

	if url == "" {
		url = defaultURL
	}

	// Test connection.
	if !nonInteractive {
		fmt.Print("\n  Testing connection... ")
	}

	ver, err := testConnection(url)
	if err != nil {
		if !nonInteractive {
			colBad.Println("✗")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if !nonInteractive {
		colGood.Printf("✓ Connected (v%s)\n", ver)
	}

	cfgPath, err := writeConfig(url)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Config saved to %s\n", cfgPath)
	} else {
		fmt.Printf("\n  ✓ Config saved to %s\n", cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    belnav doctor         # Full diagnostic check")
		fmt.Println("    belnav network list   # See loaded networks")
		fmt.Println("    belnav --help         # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

func writeConfig(url string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".belnav")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	cfg := configFile{
		Profiles: map[string]configProfile{
			"default": {URL: url},
		},
		ActiveProfile: "default",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
