package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/mproc/internal/config"
	"github.com/dhamidi/mproc/lsp"
	"github.com/dhamidi/mproc/mlogfmt"
	"github.com/dhamidi/mproc/parser"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mprocc",
		Short: "An MProc parser toolchain",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an .mproc file and dump the resulting tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open %s: %w", filename, err)
			}
			defer f.Close()

			root, err := parser.Parse(f, filename)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			var encoder mlogfmt.Encoder
			switch outputFormat {
			case "json":
				encoder = mlogfmt.NewJSONEncoder(os.Stdout)
			case "tree":
				encoder = mlogfmt.NewTreeEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s (expected json or tree)", outputFormat)
			}

			if err := encoder.Encode(root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	return cmd
}

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Parse an .mproc file and pretty-print its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open %s: %w", filename, err)
			}
			defer f.Close()

			root, err := parser.Parse(f, filename)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			enc := mlogfmt.NewTreeEncoder(os.Stdout)
			if err := enc.Encode(root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func newBuildCmd() *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Parse every .mproc file named by .mprocproject and dump each tree into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := config.LoadFrom(rootDir)
			if err != nil {
				return fmt.Errorf("load project: %w", err)
			}
			if err := proj.EnsureOutDir(); err != nil {
				return fmt.Errorf("prepare output directory: %w", err)
			}
			files, err := proj.SourceFiles()
			if err != nil {
				return fmt.Errorf("list source files: %w", err)
			}

			for _, path := range files {
				if err := buildOne(proj, path); err != nil {
					return fmt.Errorf("build %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rootDir, "root", "r", ".", "project root directory containing .mprocproject")
	return cmd
}

func buildOne(proj *config.Project, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	root, err := parser.Parse(f, path)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	outName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".mlog"
	out, err := os.Create(filepath.Join(proj.OutDir, outName))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := mlogfmt.NewTreeEncoder(out).Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer("0.1.0")
			return server.RunStdio()
		},
	}
}
