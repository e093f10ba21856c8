package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"gobind/internal/config"
	"gobind/internal/emit"
	"gobind/internal/graph"
	"gobind/internal/metadata"
)

func main() {
	cmd := &cli.Command{
		Name:  "gobind",
		Usage: "Generate Go wrappers for native class hierarchies",
		Commands: []*cli.Command{
			generateCommand(),
			importCommand(),
			fetchCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Emit wrapper source from a definition graph",
		ArgsUsage: "<graph.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (overrides the config)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Replace a non-empty output directory",
			},
		},
		Action: generateAction,
	}
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: gobind generate [-c config.toml] <graph.json>")
	}

	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if output := cmd.String("output"); output != "" {
		cfg.Output = output
	}

	g, err := graph.Load(cmd.Args().First())
	if err != nil {
		return err
	}

	if err := prepareOutput(cfg.Output, cmd.Bool("force")); err != nil {
		return err
	}
	if err := emit.New(g, cfg).Generate(cfg.Output); err != nil {
		return err
	}

	fmt.Printf("generated bindings for %d types in %s\n", len(g.Types), cfg.Output)
	return nil
}

// prepareOutput refuses to scribble over a non-empty directory unless
// --force was given; stale files from an earlier graph would otherwise
// survive next to the fresh ones.
func prepareOutput(path string, force bool) error {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if !force {
		return fmt.Errorf("output directory %s is not empty, use --force to replace it", path)
	}
	return os.RemoveAll(path)
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Build a definition graph from a Windows Metadata file",
		ArgsUsage: "<type> [type...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "metadata",
				Aliases: []string{"m"},
				Value:   "Windows.Win32.winmd",
				Usage:   "Metadata file to read",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "graph.json",
				Usage:   "Definition graph file to write",
			},
		},
		Action: importAction,
	}
}

func importAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: gobind import [-m file.winmd] <type> [type...]")
	}

	importer, err := metadata.NewImporter(cmd.String("metadata"))
	if err != nil {
		return err
	}
	g, err := importer.ImportTypes(cmd.Args().Slice())
	if err != nil {
		return err
	}

	data, err := g.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.String("output"), data, 0o644); err != nil {
		return err
	}

	fmt.Printf("imported %d types into %s\n", len(g.Types), cmd.String("output"))
	return nil
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch-metadata",
		Usage: "Download the newest Win32 metadata package",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "Windows.Win32.winmd",
				Usage:   "Metadata file to write",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return metadata.Fetch(cmd.String("output"))
		},
	}
}
