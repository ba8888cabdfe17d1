package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"ringkas/internal/domain/entity"
	"ringkas/internal/infra/pdf"
	"ringkas/internal/utils/text"
)

type commands struct {
	stdin  io.Reader
	stdout io.Writer
	build  serviceBuilder
}

// processOutput mirrors the JSON API response.
type processOutput struct {
	Output              string  `json:"output"`
	Answer              *string `json:"answer,omitempty"`
	WordCountOriginal   int     `json:"wordCountOriginal"`
	WordCountSummary    int     `json:"wordCountSummary"`
	ReductionPercentage int     `json:"reductionPercentage"`
	OutputFormat        string  `json:"outputFormat"`
	SourceKind          string  `json:"sourceKind"`
	DetectedLanguage    string  `json:"detectedLanguage,omitempty"`
}

func (cmds *commands) process(c *cli.Context) error {
	source, err := cmds.readSource(c.String("text"), c.String("file"), c.String("pdf"))
	if err != nil {
		return err
	}

	logger := newLogger(c)
	svc, err := cmds.build(c, logger)
	if err != nil {
		return err
	}

	result, err := svc.Process(c.Context, entity.ProcessingRequest{
		Text:           source,
		URL:            c.String("url"),
		Question:       c.String("question"),
		OutputFormat:   entity.OutputFormat(c.String("format")),
		OutputLanguage: entity.OutputLanguage(c.String("language")),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return cmds.printJSON(processOutput{
			Output:              result.Output,
			Answer:              result.Answer,
			WordCountOriginal:   result.WordCountOriginal,
			WordCountSummary:    result.WordCountSummary,
			ReductionPercentage: result.ReductionPercentage(),
			OutputFormat:        string(result.OutputFormat),
			SourceKind:          string(result.SourceKind),
			DetectedLanguage:    result.DetectedLanguage,
		})
	}

	fmt.Fprintln(cmds.stdout, result.Output)
	if result.Answer != nil {
		fmt.Fprintf(cmds.stdout, "\nJawaban: %s\n", *result.Answer)
	}
	fmt.Fprintf(cmds.stdout, "\nKata asli: %d | Kata hasil: %d | Pengurangan: %d%%\n",
		result.WordCountOriginal, result.WordCountSummary, result.ReductionPercentage())
	return nil
}

func (cmds *commands) answer(c *cli.Context) error {
	source, err := cmds.readSource(c.String("source"), c.String("source-file"), "")
	if err != nil {
		return err
	}

	svc, err := cmds.build(c, newLogger(c))
	if err != nil {
		return err
	}

	answer, err := svc.AnswerQuestion(c.Context, source, c.String("question"), entity.OutputLanguage(c.String("language")))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return cmds.printJSON(map[string]string{"answer": answer})
	}
	fmt.Fprintln(cmds.stdout, answer)
	return nil
}

func (cmds *commands) sentiment(c *cli.Context) error {
	source, err := cmds.readSource(c.String("text"), c.String("file"), "")
	if err != nil {
		return err
	}

	svc, err := cmds.build(c, newLogger(c))
	if err != nil {
		return err
	}

	result, err := svc.AnalyzeSentiment(c.Context, source)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return cmds.printJSON(map[string]string{
			"sentiment":   string(result.Sentiment),
			"explanation": result.Explanation,
		})
	}
	fmt.Fprintf(cmds.stdout, "%s: %s\n", result.Sentiment, result.Explanation)
	return nil
}

func (cmds *commands) pdf(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("exactly one PDF file is required")
	}
	doc, err := extractPDF(c.Args().First())
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return cmds.printJSON(map[string]any{
			"text":      doc.Text,
			"wordCount": text.CountWords(doc.Text),
			"pages":     doc.Pages,
		})
	}
	fmt.Fprintln(cmds.stdout, doc.Text)
	return nil
}

// readSource returns literal text, the contents of file ("-" reads stdin) or
// the text of a PDF. At most one may be set; all empty yields "".
func (cmds *commands) readSource(literal, file, pdfPath string) (string, error) {
	set := 0
	for _, v := range []string{literal, file, pdfPath} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", errors.New("use only one of the text, file and pdf flags")
	}

	switch {
	case file == "-":
		data, err := io.ReadAll(cmds.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		// #nosec G304 -- path is provided by the operator
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case pdfPath != "":
		doc, err := extractPDF(pdfPath)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	default:
		return literal, nil
	}
}

func extractPDF(path string) (*pdf.Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path is provided by the operator
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return pdf.Extract(f, info.Size())
}

func (cmds *commands) printJSON(v any) error {
	enc := json.NewEncoder(cmds.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
