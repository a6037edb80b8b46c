package editor

import (
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/domedit/editor/internal/chrome"
	"github.com/hazyhaar/domedit/editor/internal/dom"
)

// NewRodDocument wraps a live page as the editor's document.
func NewRodDocument(page *rod.Page) dom.Document {
	return dom.NewRodDocument(page)
}

// NewChromeInjector returns the injected in-page UI for a live page.
func NewChromeInjector(page *rod.Page, logger *slog.Logger) Chrome {
	return chrome.NewInjector(page, logger)
}

var _ Chrome = (*chrome.Injector)(nil)
