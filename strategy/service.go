package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/domedit/browser"
	"github.com/hazyhaar/domedit/idgen"
)

// Service ties the planner and executor to live browser tabs.
type Service struct {
	mgr     *browser.Manager
	planner *Planner
	ids     idgen.Generator
	logger  *slog.Logger
}

// NewService wires a strategy service. The planner may be nil, in
// which case Plan returns an error and only Run works.
func NewService(mgr *browser.Manager, planner *Planner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		mgr:     mgr,
		planner: planner,
		ids:     idgen.Prefixed("strat_", idgen.Default),
		logger:  logger,
	}
}

// Plan opens the page, captures its markup and asks the planner for a
// strategy to satisfy the goal.
func (s *Service) Plan(ctx context.Context, pageURL, goal string) (Strategy, error) {
	if s.planner == nil {
		return Strategy{}, fmt.Errorf("strategy: no planner configured")
	}

	tab, err := browser.OpenTab(ctx, s.mgr, pageURL, s.ids())
	if err != nil {
		return Strategy{}, fmt.Errorf("strategy: open page: %w", err)
	}
	defer tab.Close()

	raw, err := tab.OuterHTML(ctx)
	if err != nil {
		return Strategy{}, fmt.Errorf("strategy: read page: %w", err)
	}

	title := ""
	if info, err := tab.Page.Info(); err == nil {
		title = info.Title
	}

	return s.planner.Plan(ctx, PageContext{
		URL:    pageURL,
		Title:  title,
		Markup: string(raw),
	}, goal)
}

// Run opens the page and executes the strategy against it.
func (s *Service) Run(ctx context.Context, pageURL string, strat Strategy) ([]ViewResult, error) {
	tab, err := browser.OpenTab(ctx, s.mgr, pageURL, s.ids())
	if err != nil {
		return nil, fmt.Errorf("strategy: open page: %w", err)
	}
	defer tab.Close()

	exec := NewExecutor(NewTabDriver(tab), s.logger)
	return exec.Run(ctx, strat)
}
