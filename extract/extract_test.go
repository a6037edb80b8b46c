package extract

import (
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
  <nav><a href="/">Home</a><a href="/about">About</a></nav>
  <main>
    <article class="post featured" id="post-1">
      <h1>First Post</h1>
      <p>This is the body of the first post with enough text.</p>
    </article>
    <article class="post">
      <h1>Second Post</h1>
      <p>Second post body text here.</p>
    </article>
    <div data-widget="related">Related links</div>
  </main>
  <footer>Copyright notice</footer>
</body>
</html>`

func TestExtract_CSSByClass(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: ".post", Mode: ModeCSS})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "First Post") || !strings.Contains(res.Text, "Second Post") {
		t.Errorf("missing post text: %q", res.Text)
	}
	if res.Title != "Test Page" {
		t.Errorf("title: got %q", res.Title)
	}
	if len(res.Hash) != 64 {
		t.Errorf("hash length: got %d, want 64", len(res.Hash))
	}
}

func TestExtract_CSSByID(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "#post-1", Mode: ModeCSS})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "First Post") {
		t.Errorf("missing first post: %q", res.Text)
	}
	if strings.Contains(res.Text, "Second Post") {
		t.Errorf("matched too much: %q", res.Text)
	}
}

func TestExtract_CSSAttr(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "div[data-widget=related]", Mode: ModeCSS})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Related links" {
		t.Errorf("got %q", res.Text)
	}
}

func TestExtract_CSSDescendant(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "article.featured h1", Mode: ModeCSS})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "First Post" {
		t.Errorf("got %q", res.Text)
	}
}

func TestExtract_XPathDescendant(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "//article[@id='post-1']", Mode: ModeXPath})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "First Post") {
		t.Errorf("got %q", res.Text)
	}
}

func TestExtract_XPathPositional(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "//article[2]", Mode: ModeXPath})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "Second Post") {
		t.Errorf("got %q", res.Text)
	}
	if strings.Contains(res.Text, "First Post") {
		t.Errorf("matched first post too: %q", res.Text)
	}
}

func TestExtract_XPathAbsolute(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "/html/body/main/div", Mode: ModeXPath})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Related links" {
		t.Errorf("got %q", res.Text)
	}
}

func TestExtract_TextModeSkipsBoilerplate(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Mode: ModeText})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.Text, "Copyright") {
		t.Errorf("footer not skipped: %q", res.Text)
	}
	if strings.Contains(res.Text, "Home") {
		t.Errorf("nav not skipped: %q", res.Text)
	}
	if !strings.Contains(res.Text, "First Post") {
		t.Errorf("content missing: %q", res.Text)
	}
}

func TestExtract_NoMatch(t *testing.T) {
	_, err := Extract([]byte(testPage), Options{Selector: ".does-not-exist", Mode: ModeCSS})
	if err == nil {
		t.Fatal("expected error for unmatched selector")
	}
}

func TestExtract_UnknownMode(t *testing.T) {
	_, err := Extract([]byte(testPage), Options{Selector: "p", Mode: "regex"})
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestExtract_MinTextLen(t *testing.T) {
	res, err := Extract([]byte(testPage), Options{Selector: "article", Mode: ModeCSS, MinTextLen: 40})
	if err != nil {
		t.Fatal(err)
	}
	// Only the first article has >= 40 chars of text.
	if strings.Contains(res.Text, "Second Post") {
		t.Errorf("short region not filtered: %q", res.Text)
	}
}
