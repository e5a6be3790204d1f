package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "documentation format: markdown, man")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDoc,
}

func runGenDoc(cmd *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Pass --dir")
	}
	if err := paths.EnsureDir(genDocDir, 0); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	var err error
	switch genDocFormat {
	case "markdown":
		err = doc.GenMarkdownTreeCustom(rootCmd, genDocDir, filePrepender, linkHandler)
	case "man":
		err = doc.GenManTree(rootCmd, &doc.GenManHeader{Title: "AIGRID", Section: "1"}, genDocDir)
	default:
		return errors.NewUserError(errors.Newf("unsupported format %q", genDocFormat), "Use --format markdown or --format man")
	}
	if err != nil {
		return errors.Wrap(err, "generating documentation")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
	return nil
}

// filePrepender adds front matter naming the command, so aigrid_config_edit.md
// gets the title "config edit".
func filePrepender(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(strings.TrimPrefix(base, "aigrid_"), "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "../" + strings.ToLower(base) + "/"
}
