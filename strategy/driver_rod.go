package strategy

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/domedit/browser"
)

// TabDriver adapts a live browser tab to the PageDriver interface.
type TabDriver struct {
	tab *browser.Tab
}

// NewTabDriver wraps an open tab.
func NewTabDriver(tab *browser.Tab) *TabDriver {
	return &TabDriver{tab: tab}
}

func (d *TabDriver) Click(ctx context.Context, selector string) error {
	el, err := d.tab.Page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %q: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (d *TabDriver) Input(ctx context.Context, selector, value string) error {
	el, err := d.tab.Page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %q: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text in %q: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("input into %q: %w", selector, err)
	}
	return nil
}

func (d *TabDriver) Hover(ctx context.Context, selector string) error {
	el, err := d.tab.Page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %q: %w", selector, err)
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("hover %q: %w", selector, err)
	}
	return nil
}

func (d *TabDriver) Scroll(ctx context.Context, pixels int) error {
	_, err := d.tab.Page.Context(ctx).Eval(`(y) => window.scrollBy(0, y)`, pixels)
	if err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (d *TabDriver) HTML(ctx context.Context) (string, error) {
	return d.tab.Page.Context(ctx).HTML()
}

func (d *TabDriver) URL() string {
	return d.tab.PageURL
}
