package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/hazyhaar/domedit/extract"
)

// PageDriver abstracts the live page the executor acts on. The rod
// adapter implements it over a CDP tab; tests script a fake.
type PageDriver interface {
	Click(ctx context.Context, selector string) error
	Input(ctx context.Context, selector, value string) error
	Hover(ctx context.Context, selector string) error
	Scroll(ctx context.Context, pixels int) error
	HTML(ctx context.Context) (string, error)
	URL() string
}

// Executor applies a validated strategy to a page and collects its
// views.
type Executor struct {
	driver PageDriver
	logger *slog.Logger
	conv   *converter.Converter
}

// NewExecutor binds an executor to one page driver.
func NewExecutor(driver PageDriver, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		driver: driver,
		logger: logger,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Run validates the strategy, applies its steps in order and then
// collects every view from the resulting document. Step failures
// abort the run; a view that matches nothing is logged and skipped so
// the remaining views still run. An error is returned only when no
// view produced content.
func (e *Executor) Run(ctx context.Context, s Strategy) ([]ViewResult, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	for i, st := range s.Steps {
		if err := e.applyStep(ctx, st); err != nil {
			return nil, fmt.Errorf("strategy: step %d (%s): %w", i, st.Kind, err)
		}
	}

	raw, err := e.driver.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("strategy: read page: %w", err)
	}

	results := make([]ViewResult, 0, len(s.Views))
	for _, v := range s.Views {
		res, err := e.collectView([]byte(raw), v)
		if err != nil {
			e.logger.Warn("view collection failed", "view", v.Name, "error", err)
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("strategy: no view produced content")
	}
	return results, nil
}

func (e *Executor) applyStep(ctx context.Context, st Step) error {
	e.logger.Debug("applying step", "kind", st.Kind, "selector", st.Selector)
	switch st.Kind {
	case StepClick:
		return e.driver.Click(ctx, st.Selector)
	case StepInput:
		return e.driver.Input(ctx, st.Selector, st.Value)
	case StepHover:
		return e.driver.Hover(ctx, st.Selector)
	case StepScroll:
		return e.driver.Scroll(ctx, st.Pixels)
	case StepWait:
		select {
		case <-time.After(time.Duration(st.DurationMS) * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return fmt.Errorf("unknown step kind %q", st.Kind)
	}
}

func (e *Executor) collectView(raw []byte, v View) (ViewResult, error) {
	res, err := extract.Extract(raw, extract.Options{
		Selector: v.Selector,
		Mode:     v.Mode,
	})
	if err != nil {
		return ViewResult{}, err
	}

	md, err := e.conv.ConvertString(res.HTML, converter.WithDomain(e.driver.URL()))
	if err != nil {
		// Markdown is a convenience rendering; the raw view still stands.
		e.logger.Warn("markdown conversion failed", "view", v.Name, "error", err)
		md = ""
	}

	return ViewResult{
		Name:     v.Name,
		Title:    res.Title,
		Text:     res.Text,
		HTML:     res.HTML,
		Markdown: md,
	}, nil
}
