package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/runtime"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Filler asks for every visible field of a runtime session in the terminal,
// one wizard step at a time, and submits once the last step is valid.
type Filler struct {
	driver PromptDriver
	theme  Theme
	logger *log.Logger
}

// New constructs a filler with defaults (survey driver on stdout).
func New(options ...Option) *Filler {
	f := &Filler{logger: logging.Discard()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill drives s to a successful submit and returns the submitted record.
// Advancing is blocked until the active step validates; a failed submit jumps
// back to the first step holding an error. When no failing field can be
// prompted for, Fill returns the *runtime.InvalidError.
func (f *Filler) Fill(ctx context.Context, s *runtime.Session) (model.Record, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if s == nil {
		return nil, ErrNoSession
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := f.fillStep(ctx, s); err != nil {
			return nil, err
		}

		if s.Step().Index < s.StepCount()-1 {
			if errs, ok := s.Advance(); !ok {
				f.logger.Debug("step blocked", "step", s.Step().Index, "errors", errs.Keys())
				if err := f.report(ctx, errs); err != nil {
					return nil, err
				}
				if !fixable(s, errs) {
					return nil, &runtime.InvalidError{Errors: errs}
				}
			}
			continue
		}

		record, err := s.Submit()
		if err == nil {
			return record, nil
		}
		var invalid *runtime.InvalidError
		if !errors.As(err, &invalid) {
			return nil, err
		}
		if err := f.report(ctx, invalid.Errors); err != nil {
			return nil, err
		}
		if !fixable(s, invalid.Errors) {
			return nil, err
		}
		s.Goto(stepOf(s, invalid.Errors.Keys()))
	}
}

func (f *Filler) fillStep(ctx context.Context, s *runtime.Session) error {
	step := s.Step()
	if s.StepCount() > 1 {
		header := fmt.Sprintf("Step %d of %d", step.Index+1, s.StepCount())
		if step.Title != "" {
			header += ": " + step.Title
		}
		if err := f.driver.Info(ctx, f.theme.StepPrefix+header); err != nil {
			return err
		}
	}

	for _, field := range step.Fields {
		if !visibility.IsVisible(field, s.Record()) {
			continue
		}
		if err := f.promptField(ctx, s, field); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) promptField(ctx context.Context, s *runtime.Session, field model.FormField) error {
	current, _ := s.Value(field.Key)
	vm := render.RenderField(field, current)

	switch {
	case vm.Kind == render.KindSeparator:
		return f.driver.Info(ctx, f.theme.InfoPrefix+vm.Label)
	case vm.ReadOnly || vm.Disabled:
		return f.driver.Info(ctx, fmt.Sprintf("%s%s: %s", f.theme.InfoPrefix, vm.Label, vm.Text))
	}

	for {
		answer, problem, err := f.ask(ctx, vm)
		if err != nil {
			return err
		}
		if problem != "" {
			if err := f.driver.Info(ctx, fmt.Sprintf("%s%s: %s", f.theme.ErrorPrefix, vm.Label, problem)); err != nil {
				return err
			}
			continue
		}

		s.Set(field.Key, answer)
		msg, failed := s.Errors()[field.Key]
		if !failed {
			return nil
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s%s: %s", f.theme.ErrorPrefix, vm.Label, msg)); err != nil {
			return err
		}
		vm = render.RenderField(field, answer)
	}
}

// ask runs the prompt that fits vm.Kind. problem is set when the answer
// cannot be converted, e.g. letters typed into a number.
func (f *Filler) ask(ctx context.Context, vm render.ViewModel) (answer any, problem string, err error) {
	message := vm.Label
	if vm.Required {
		message += " *"
	}
	help := vm.HelpText
	if help == "" {
		help = vm.Placeholder
	}

	switch vm.Kind {
	case render.KindInput:
		cfg := InputConfig{Message: message, Default: vm.Text, Help: help}
		switch vm.InputType {
		case string(model.FieldTypePassword):
			cfg.Default = ""
			answer, err = f.driver.Password(ctx, cfg)
			return answer, "", err
		case "number":
			cfg.Validator = numberValidator
			raw, err := f.driver.Input(ctx, cfg)
			if err != nil {
				return nil, "", err
			}
			return parseNumber(raw)
		default:
			answer, err = f.driver.Input(ctx, cfg)
			return answer, "", err
		}

	case render.KindTextarea, render.KindRichText:
		answer, err = f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: vm.Text, Help: help})
		return answer, "", err

	case render.KindChoice:
		labels, selected := optionLabels(vm.Options)
		cfg := SelectConfig{Message: message, Options: labels, Help: help}
		if len(selected) > 0 {
			cfg.DefaultIndex = selected[0]
		}
		idx, err := f.driver.Select(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		if idx < 0 || idx >= len(vm.Options) {
			return "", "", nil
		}
		return vm.Options[idx].Value, "", nil

	case render.KindMultiChoice:
		labels, selected := optionLabels(vm.Options)
		indices, err := f.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: selected, Help: help})
		if err != nil {
			return nil, "", err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(vm.Options) {
				values = append(values, vm.Options[idx].Value)
			}
		}
		return values, "", nil

	case render.KindToggle:
		answer, err = f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: vm.Checked, Help: help})
		return answer, "", err

	case render.KindRange, render.KindRating:
		if help == "" && vm.Max != nil {
			lo := 0.0
			if vm.Min != nil {
				lo = *vm.Min
			}
			help = fmt.Sprintf("between %s and %s", formatNumber(lo), formatNumber(*vm.Max))
		}
		cfg := InputConfig{Message: message, Help: help, Validator: numberValidator}
		if vm.Text != "" {
			cfg.Default = formatNumber(vm.Number)
		}
		raw, err := f.driver.Input(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return parseNumber(raw)

	case render.KindUpload:
		if help == "" && vm.Accept != "" {
			help = "accepted: " + vm.Accept
		}
		answer, err = f.driver.Input(ctx, InputConfig{Message: message + " (file path)", Default: vm.Text, Help: help})
		return answer, "", err

	case render.KindSignature:
		answer, err = f.driver.Input(ctx, InputConfig{Message: message + " (type your name to sign)", Default: vm.Text, Help: help})
		return answer, "", err

	default:
		answer, err = f.driver.Input(ctx, InputConfig{Message: message, Default: vm.Text, Help: help})
		return answer, "", err
	}
}

func (f *Filler) report(ctx context.Context, errs validation.Errors) error {
	for _, key := range errs.Keys() {
		if err := f.driver.Info(ctx, fmt.Sprintf("%s%s: %s", f.theme.ErrorPrefix, key, errs[key])); err != nil {
			return err
		}
	}
	return nil
}

// fixable reports whether any failing field can be prompted for. Read-only,
// disabled and computed fields only change through the record or formulas.
func fixable(s *runtime.Session, errs validation.Errors) bool {
	def := s.Definition()
	for _, key := range errs.Keys() {
		field, ok := def.FieldByKey(key)
		if ok && !field.ReadOnly() && field.Calculation() == "" {
			return true
		}
	}
	return false
}

func stepOf(s *runtime.Session, keys []string) int {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	for _, step := range s.Steps() {
		for _, field := range step.Fields {
			if wanted[field.Key] {
				return step.Index
			}
		}
	}
	return 0
}

func optionLabels(options []render.Option) (labels []string, selected []int) {
	labels = make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Label
		if opt.Selected {
			selected = append(selected, i)
		}
	}
	return labels, selected
}

func numberValidator(raw string) error {
	if _, problem, _ := parseNumber(raw); problem != "" {
		return errors.New(problem)
	}
	return nil
}

// parseNumber converts typed text to a float. Blank input clears the value
// so the required check can report it.
func parseNumber(raw string) (any, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, "", nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, "enter a number", nil
	}
	return n, "", nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
