package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/belnav/belnav/client"
)

// Build-time variables set via ldflags.
var (
	version   = "1.0.0"
	commit    = ""
	buildDate = ""
)

var (
	apiClient *client.Client
	flagURL   string
	flagFmt   string
)

const defaultURL = "http://localhost:5000"

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("belnav version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("belnav version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL string `yaml:"url"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL string `yaml:"url"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "belnav",
		Short:   "belnav CLI for exploring biological knowledge networks",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			apiClient = client.New(flagURL)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "belnav server URL (env: BELNAV_URL)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup
	doctorCmd := newDoctorCmd()

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(newNetworkCmd())
	rootCmd.AddCommand(newPathsCmd())
	rootCmd.AddCommand(newCentralityCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newSessionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("BELNAV_URL"); v != "" {
			flagURL = v
		}
	}

	// Try config file for any remaining defaults.
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfgPath := filepath.Join(home, ".belnav", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	// Resolve from profiles if available, fall back to flat format
	resolvedURL := cfg.URL
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok && p.URL != "" {
			resolvedURL = p.URL
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
