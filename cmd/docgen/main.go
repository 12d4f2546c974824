package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/CUSTIS-public/docgen/pkg/docgen"
	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

var cli struct {
	Config   string `help:"Path to a YAML configuration file." type:"existingfile"`
	LogLevel string `help:"Log level: debug, info, warn, error or off." placeholder:"LEVEL"`

	Populate PopulateCmd `cmd:"" help:"Populate a template with JSON data."`
	Inspect  InspectCmd  `cmd:"" help:"List the content controls of a template."`
}

// PopulateCmd fills a template and writes the result.
type PopulateCmd struct {
	Template string `arg:"" help:"Template DOCX file." type:"existingfile"`
	Data     string `arg:"" help:"JSON data file." type:"existingfile"`
	Output   string `short:"o" default:"output.docx" help:"Output file path."`

	ErrorReport      bool `help:"Render collected errors as a visible report inside the output document."`
	NewlinesToBreaks bool `negatable:"" default:"true" help:"Convert embedded newlines in values to line breaks."`
}

func (c *PopulateCmd) Run(config *docgen.Config) error {
	config.RenderErrorReport = config.RenderErrorReport || c.ErrorReport
	config.NewlinesToBreaks = c.NewlinesToBreaks
	docgen.SetGlobalConfig(config)

	raw, err := os.ReadFile(c.Data)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}
	data, err := docgen.ParseData(raw)
	if err != nil {
		return err
	}

	engine := docgen.New(docgen.WithConfig(config))
	defer engine.Close()

	errs, err := engine.PopulateToFile(c.Template, data, c.Output)
	if err != nil {
		return err
	}
	if errs.HasErrors() {
		fmt.Fprintf(os.Stderr, "completed with %d population errors:\n%s\n", errs.Len(), errs.Error())
	}
	fmt.Printf("wrote %s\n", c.Output)
	return nil
}

// InspectCmd prints the content controls a template declares, nested
// controls indented under their parent.
type InspectCmd struct {
	Template string `arg:"" help:"Template DOCX file." type:"existingfile"`
	Parts    bool   `help:"Also list package part names."`
}

func (c *InspectCmd) Run(config *docgen.Config) error {
	reader, err := docgen.DocxReaderFromFile(c.Template)
	if err != nil {
		return err
	}

	documentXML, err := reader.GetDocumentXML()
	if err != nil {
		return err
	}
	doc, err := ooxml.Parse(strings.NewReader(documentXML))
	if err != nil {
		return err
	}
	if doc.Body != nil {
		printControls(doc.Body.Elements, 0)
	}

	if c.Parts {
		parts := reader.ListParts()
		sort.Strings(parts)
		fmt.Println()
		for _, part := range parts {
			fmt.Println(part)
		}
	}
	return nil
}

func printControls(elements []ooxml.BodyElement, depth int) {
	for _, el := range elements {
		switch e := el.(type) {
		case *ooxml.SDT:
			line := strings.Repeat("  ", depth)
			if e.Properties != nil && e.Properties.HasTag {
				line += e.Properties.Tag
			} else {
				line += "(no tag)"
			}
			if e.Properties != nil && len(e.Properties.Markers) > 0 {
				line += " [" + strings.Join(e.Properties.Markers, ", ") + "]"
			}
			fmt.Println(line)
			printControls(e.Content, depth+1)
		case *ooxml.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					printControls(cell.Elements, depth)
				}
			}
		}
	}
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("docgen"),
		kong.Description("Populates DOCX templates built with content controls."),
		kong.UsageOnError(),
	)

	config, err := loadConfig()
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(ctx.Run(config))
}

func loadConfig() (*docgen.Config, error) {
	var config *docgen.Config
	if cli.Config != "" {
		c, err := docgen.ConfigFromFile(cli.Config)
		if err != nil {
			return nil, err
		}
		config = c
	} else {
		config = docgen.ConfigFromEnvironment()
	}

	if cli.LogLevel != "" {
		config.LogLevel = cli.LogLevel
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	docgen.SetGlobalConfig(config)
	return config, nil
}
