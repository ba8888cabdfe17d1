// Command ringkas runs the text processing pipeline from the command line.
//
//	ringkas process --url https://example.com/berita --format keyPoints
//	ringkas process --file artikel.txt --question "Kapan berlaku?"
//	ringkas answer --source-file artikel.txt --question "Siapa tokohnya?"
//	ringkas sentiment --text "Pelayanannya sangat memuaskan."
//	ringkas pdf laporan.pdf
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"ringkas/internal/app"
	"ringkas/internal/config"
	"ringkas/internal/observability/logging"
	"ringkas/internal/usecase/summarize"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, buildService).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// serviceBuilder creates the pipeline for a command invocation.
type serviceBuilder func(c *cli.Context, logger *slog.Logger) (*summarize.Service, error)

func buildService(c *cli.Context, logger *slog.Logger) (*summarize.Service, error) {
	if path := c.String("config"); path != "" {
		if err := os.Setenv("RINGKAS_CONFIG", path); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	components, err := app.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	return components.Service, nil
}

func newApp(stdin io.Reader, stdout io.Writer, build serviceBuilder) *cli.App {
	cmds := &commands{stdin: stdin, stdout: stdout, build: build}

	return &cli.App{
		Name:      "ringkas",
		Usage:     "summarize Indonesian text, web pages, YouTube videos and PDFs",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML configuration file",
				EnvVars: []string{"RINGKAS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "process",
				Usage:  "summarize, list key points, questions or content ideas",
				Action: cmds.process,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "source text"},
					&cli.StringFlag{Name: "file", Usage: "read the source text from a file, - for stdin"},
					&cli.StringFlag{Name: "pdf", Usage: "extract the source text from a PDF"},
					&cli.StringFlag{Name: "url", Usage: "web page or YouTube URL"},
					&cli.StringFlag{Name: "question", Aliases: []string{"q"}, Usage: "question answered from the text"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "summary", Usage: "summary, keyPoints, questions or contentIdeas"},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Value: "indonesian", Usage: "indonesian, english or arabic"},
				},
			},
			{
				Name:   "answer",
				Usage:  "answer a question strictly from a source text",
				Action: cmds.answer,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "source text"},
					&cli.StringFlag{Name: "source-file", Usage: "read the source text from a file, - for stdin"},
					&cli.StringFlag{Name: "question", Aliases: []string{"q"}, Required: true},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Value: "indonesian"},
				},
			},
			{
				Name:   "sentiment",
				Usage:  "label a text as Positive, Negative or Neutral",
				Action: cmds.sentiment,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "text to analyze"},
					&cli.StringFlag{Name: "file", Usage: "read the text from a file, - for stdin"},
				},
			},
			{
				Name:      "pdf",
				Usage:     "print the text of a PDF",
				ArgsUsage: "<file.pdf>",
				Action:    cmds.pdf,
			},
		},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	return logging.New(logging.Options{
		Level:  c.String("log-level"),
		Format: "text",
		Output: os.Stderr,
	})
}
