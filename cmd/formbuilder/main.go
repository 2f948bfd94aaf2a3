package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/compute"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/runtime"
	"github.com/goliatone/go-formbuilder/pkg/wizard"
)

const usage = `Usage: formbuilder <command> [flags]

Commands:
  new    create a definition from a list of field types
  lint   check definition files or directories
  plan   print the wizard steps and formula order of a definition
  fill   fill a definition in the terminal and print the submitted record
`

type app struct {
	stdout io.Writer
	stderr io.Writer
	// driver replaces the terminal prompts when set.
	driver tui.PromptDriver
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.run(context.Background(), os.Args[1:]))
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "new":
		err = a.newCmd(args[1:])
	case "lint":
		err = a.lintCmd(args[1:])
	case "plan":
		err = a.planCmd(args[1:])
	case "fill":
		err = a.fillCmd(ctx, args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(a.stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errLintFailed):
		return 1
	default:
		fmt.Fprintf(a.stderr, "formbuilder %s: %v\n", args[0], err)
		return 1
	}
}

var errLintFailed = errors.New("lint failed")

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func (a *app) flags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	level := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	return fs, level
}

func (a *app) logger(level string) *log.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Output = a.stderr
	return logging.New(cfg)
}

func (a *app) newCmd(args []string) error {
	fs, level := a.flags("new")
	name := fs.String("name", "Untitled form", "Form name")
	layout := fs.String("layout", string(model.LayoutSingle), "Layout mode (single, wizard)")
	output := fs.String("output", "", "Write the definition to this file instead of stdout")
	format := fs.String("format", "", "Output format when writing to stdout (json, yaml)")
	var types stringList
	fs.Var(&types, "field", "Field type to append; repeat or comma-separate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := a.logger(*level)
	editor := builder.NewEmpty(*name, builder.WithLogger(logger), builder.WithUniqueKeys())
	if err := editor.SetLayoutMode(model.LayoutMode(*layout)); err != nil {
		return err
	}
	for _, t := range types {
		if _, err := editor.AddField(model.FieldType(t)); err != nil {
			return fmt.Errorf("add %s: %w", t, err)
		}
	}
	def := editor.Definition()

	if *output != "" {
		if err := definition.WriteFile(*output, def); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Form written to %s\n", *output)
		return nil
	}

	f := definition.Format(*format)
	if f == "" {
		f = definition.FormatYAML
	}
	data, err := definition.Encode(def, f)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}

func (a *app) lintCmd(args []string) error {
	fs, level := a.flags("lint")
	asJSON := fs.Bool("json", false, "Print findings as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("at least one file or directory is required")
	}
	logger := a.logger(*level)

	var docs []definition.Document
	for _, path := range paths {
		loaded, err := loadPath(path)
		if err != nil {
			return err
		}
		logger.Debug("loaded definitions", "path", path, "count", len(loaded))
		docs = append(docs, loaded...)
	}

	type report struct {
		Path string `json:"path"`
		ID   string `json:"id"`
		definition.LintResult
	}
	reports := make([]report, 0, len(docs))
	failed := false
	for _, doc := range docs {
		result := definition.Lint(doc.Definition)
		if !result.Valid {
			failed = true
		}
		reports = append(reports, report{Path: doc.Path, ID: doc.Definition.ID, LintResult: result})
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.Valid {
				fmt.Fprintf(a.stdout, "%s: ok\n", r.Path)
				continue
			}
			for _, issue := range r.Issues {
				fmt.Fprintf(a.stdout, "%s: %s -> %s\n", r.Path, issue.Path, issue.Message)
			}
		}
	}
	if failed {
		return errLintFailed
	}
	return nil
}

func loadPath(path string) ([]definition.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		def, err := definition.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []definition.Document{{Path: path, Definition: def}}, nil
	}
	docs, err := definition.LoadFS(os.DirFS(path))
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Path = filepath.Join(path, docs[i].Path)
	}
	return docs, nil
}

func (a *app) planCmd(args []string) error {
	fs, _ := a.flags("plan")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected one definition file")
	}
	def, err := definition.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s (%s, %d fields)\n", def.Name, def.LayoutMode, len(def.Fields))
	for _, step := range wizard.PlanDefinition(def) {
		title := step.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(a.stdout, "step %d [%s]: %s\n", step.Index+1, title, strings.Join(dataKeys(step), ", "))
	}

	graph := compute.Build(def)
	for _, key := range graph.Order() {
		fmt.Fprintf(a.stdout, "compute %s <- %s\n", key, strings.Join(graph.DependsOn(key), ", "))
	}
	if err := graph.Cycle(); err != nil {
		fmt.Fprintf(a.stdout, "warning: %v\n", err)
	}
	return nil
}

func dataKeys(step wizard.Step) []string {
	keys := make([]string, 0, len(step.Fields))
	for _, field := range step.Fields {
		if fieldschema.CarriesData(field.Type) {
			keys = append(keys, field.Key)
		}
	}
	return keys
}

func (a *app) fillCmd(ctx context.Context, args []string) error {
	fs, level := a.flags("fill")
	recordPath := fs.String("record", "", "JSON file with initial values")
	format := fs.String("format", string(tui.OutputFormatJSON), "Output format (json, form, pretty)")
	output := fs.String("output", "", "Write the submitted record to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected one definition file")
	}

	def, err := definition.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if result := definition.Lint(def); !result.Valid {
		return fmt.Errorf("definition has %d lint issues, run lint for details", len(result.Issues))
	}

	var initial model.Record
	if *recordPath != "" {
		raw, err := os.ReadFile(*recordPath)
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		if err := json.Unmarshal(raw, &initial); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
	}

	logger := a.logger(*level)
	session := runtime.NewSession(def, initial, runtime.WithLogger(logger))
	filler := tui.New(
		tui.WithPromptDriver(a.driver),
		tui.WithLogger(logger),
		tui.WithTheme(tui.Theme{StepPrefix: "== ", ErrorPrefix: "! "}),
	)
	record, err := filler.Fill(ctx, session)
	if err != nil {
		return err
	}

	data, err := tui.Serialize(record, tui.OutputFormat(*format))
	if err != nil {
		return err
	}
	if *output != "" {
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		fmt.Fprintf(a.stdout, "Record written to %s\n", *output)
		return nil
	}
	_, err = a.stdout.Write(data)
	return err
}
