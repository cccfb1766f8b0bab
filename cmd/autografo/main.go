package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Joaovcitor/autografo/pkg/engine"
	"github.com/Joaovcitor/autografo/pkg/norma"
	"github.com/Joaovcitor/autografo/pkg/normalize"
	"github.com/Joaovcitor/autografo/pkg/segment"
	"github.com/Joaovcitor/autografo/pkg/source"
	"github.com/Joaovcitor/autografo/pkg/template"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "autografo",
		Short: "Structure raw Brazilian legal text into statutory trees",
		Long: `Autografo converts loosely-structured legal text (scraped pages,
word-processor exports) into strict hierarchical trees following
Brazilian statutory structure: Law → Chapter → Article → Paragraph →
Inciso → Alínea → Item.

A single source file often concatenates several independent acts
(a clerk's batch export of autógrafos); the engine detects the
boundaries, splits the text into one record per act, and discards
page-header repetitions.`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(templatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a document into structured acts",
		Long: `Parse a document and emit the structured acts as JSON.

Example:
  autografo parse --source autografos-2024.txt
  autografo parse --source lei.txt --single --stats
  autografo parse --source batch.txt --header-template '(?i)^OFICIO N. *(\d+)'
  autografo parse --source batch.txt --template oficio --templates-dir ./templates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, _ := cmd.Flags().GetString("source")
			output, _ := cmd.Flags().GetString("output")
			single, _ := cmd.Flags().GetBool("single")
			showStats, _ := cmd.Flags().GetBool("stats")

			if sourcePath == "" {
				return fmt.Errorf("--source flag is required")
			}
			headerTemplate, err := resolveHeaderTemplate(cmd)
			if err != nil {
				return err
			}

			src := source.FileSource{Path: sourcePath}
			raw, err := src.Text(cmd.Context())
			if err != nil {
				return err
			}

			var payload any
			if single {
				act := engine.ParseSingleAct(raw, src.Identifier())
				if act == nil {
					return fmt.Errorf("%s has no content", sourcePath)
				}
				if showStats {
					printStats(act.Title, act.Statistics())
				}
				payload = act
			} else {
				acts := engine.ParseDocument(raw, src.Identifier(),
					engine.WithHeaderTemplate(headerTemplate))
				if len(acts) == 0 {
					return fmt.Errorf("%s has no content", sourcePath)
				}
				fmt.Printf("Structured %d act(s) from %s\n", len(acts), sourcePath)
				if showStats {
					for _, act := range acts {
						printStats(act.Title, act.Statistics())
					}
				}
				payload = acts
			}

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().String("source", "", "Source text file (required)")
	cmd.Flags().String("output", "", "Write JSON to file instead of stdout")
	cmd.Flags().String("header-template", "", "Custom autógrafo header pattern")
	cmd.Flags().String("template", "", "Named header template from the registry")
	cmd.Flags().String("templates-dir", "", "Directory of template definitions to load")
	cmd.Flags().Bool("single", false, "Treat the document as exactly one act")
	cmd.Flags().Bool("stats", false, "Print per-act node counts")
	return cmd
}

// resolveHeaderTemplate picks the header pattern for the run: a named
// registry template when --template is set, otherwise the raw
// --header-template pattern (possibly empty).
func resolveHeaderTemplate(cmd *cobra.Command) (string, error) {
	name, _ := cmd.Flags().GetString("template")
	if name == "" {
		pattern, _ := cmd.Flags().GetString("header-template")
		return pattern, nil
	}
	registry := template.NewRegistry()
	if dir, _ := cmd.Flags().GetString("templates-dir"); dir != "" {
		if err := registry.LoadDirectory(dir); err != nil {
			return "", err
		}
	}
	t, ok := registry.Get(name)
	if !ok {
		return "", fmt.Errorf("template %q not registered", name)
	}
	return t.Pattern, nil
}

func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Show how a document segments into acts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, _ := cmd.Flags().GetString("source")

			if sourcePath == "" {
				return fmt.Errorf("--source flag is required")
			}
			headerTemplate, err := resolveHeaderTemplate(cmd)
			if err != nil {
				return err
			}
			src := source.FileSource{Path: sourcePath}
			raw, err := src.Text(cmd.Context())
			if err != nil {
				return err
			}

			result := segment.Split(normalize.Clean(raw), headerTemplate)
			fmt.Printf("Strategy: %s\n", result.Strategy)
			fmt.Printf("Blocks:   %d\n", len(result.Blocks))
			for i, block := range result.Blocks {
				first := strings.SplitN(strings.TrimSpace(block), "\n", 2)[0]
				fmt.Printf("  %d. %s (%d bytes)\n", i+1, first, len(block))
			}
			return nil
		},
	}

	cmd.Flags().String("source", "", "Source text file (required)")
	cmd.Flags().String("header-template", "", "Custom autógrafo header pattern")
	cmd.Flags().String("template", "", "Named header template from the registry")
	cmd.Flags().String("templates-dir", "", "Directory of template definitions to load")
	return cmd
}

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Clean a raw text file and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, _ := cmd.Flags().GetString("source")
			output, _ := cmd.Flags().GetString("output")

			if sourcePath == "" {
				return fmt.Errorf("--source flag is required")
			}
			data, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", sourcePath, err)
			}

			cleaned := normalize.Clean(string(data))
			if output == "" {
				fmt.Println(cleaned)
				return nil
			}
			if err := os.WriteFile(output, []byte(cleaned+"\n"), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().String("source", "", "Source text file (required)")
	cmd.Flags().String("output", "", "Write cleaned text to file instead of stdout")
	return cmd
}

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage header-template definitions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered header templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			registry := template.NewRegistry()
			if dir != "" {
				if err := registry.LoadDirectory(dir); err != nil {
					return err
				}
			}
			for _, t := range registry.List() {
				fmt.Printf("%-20s %s\n", t.Name, t.Pattern)
				if t.Description != "" {
					fmt.Printf("%-20s %s\n", "", t.Description)
				}
			}
			return nil
		},
	}
	listCmd.Flags().String("dir", "", "Template directory to load")

	validateCmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate header-template files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := template.NewRegistry()
			failed := 0
			for _, path := range args {
				if err := registry.LoadFile(path); err != nil {
					fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Printf("OK   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d template file(s) failed validation", failed)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(validateCmd)
	return cmd
}

func printStats(title string, stats norma.Statistics) {
	fmt.Printf("  %s: %d article(s), %d paragraph(s), %d inciso(s), %d alínea(s), %d item(s)\n",
		title, stats.Articles, stats.Paragraphs, stats.Subsections, stats.Clauses, stats.Items)
}
