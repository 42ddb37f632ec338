package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Harshitk-cp/atomspace/internal/buildconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	serverURL string
	apiKey    string
	output    string

	rootCmd = &cobra.Command{
		Use:           "atomctl",
		Short:         "Command line client for the atomspace server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	loadCmd = &cobra.Command{
		Use:   "load [facts.yaml]",
		Short: "Add the atoms listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoad,
	}

	matchCmd = &cobra.Command{
		Use:   "match [pattern.yaml]",
		Short: "Ground a pattern against the space",
		Args:  cobra.ExactArgs(1),
		RunE:  runMatch,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show atom counts by kind and type",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Dump every atom as node and link records",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "atomctl %s (%s)\n", buildconfig.Version(), buildconfig.Commit())
		},
	}
)

func init() {
	defaultServer := os.Getenv("ATOMCTL_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "atomspace server base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("API_KEY"), "bearer token for the /v1 API")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "output format (yaml, json)")

	rootCmd.AddCommand(loadCmd, matchCmd, statsCmd, exportCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func client() *apiClient {
	return newAPIClient(serverURL, apiKey)
}

func runLoad(cmd *cobra.Command, args []string) error {
	specs, err := readFacts(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := client()
	created, merged := 0, 0
	for i, spec := range specs {
		result, err := c.Add(ctx, spec)
		if err != nil {
			return fmt.Errorf("atom %d: %w", i, err)
		}
		if result.Merged {
			merged++
		} else {
			created++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d atoms (%d created, %d merged)\n", len(specs), created, merged)
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	req, err := readPattern(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := client().Query(ctx, req)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matches")
		return nil
	}

	// Print each grounding as variable -> atom text, variables sorted.
	rows := make([]map[string]string, 0, len(results))
	for _, g := range results {
		row := make(map[string]string, len(g))
		for name, v := range g {
			row[name] = v.Text
		}
		rows = append(rows, row)
	}
	return render(cmd.OutOrStdout(), rows)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stats, err := client().Stats(ctx)
	if err != nil {
		return err
	}
	if output != "yaml" {
		return render(cmd.OutOrStdout(), stats)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "total: %d\nnodes: %d\nlinks: %d\n", stats.Total, stats.Nodes, stats.Links)
	names := make([]string, 0, len(stats.ByType))
	for name := range stats.ByType {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		fmt.Fprintln(w, "by_type:")
	}
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, stats.ByType[name])
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := client().Export(ctx)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), snap)
}

func render(w io.Writer, v any) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
