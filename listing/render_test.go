package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type anchor struct {
	href string
	text string
}

// parseDoc parses a rendered document, failing the test on malformed input
func parseDoc(t *testing.T, doc string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

func elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

func anchors(t *testing.T, doc string) []anchor {
	t.Helper()
	var out []anchor
	for _, a := range elements(parseDoc(t, doc), "a") {
		var href string
		for _, attr := range a.Attr {
			if attr.Key == "href" {
				href = attr.Val
			}
		}
		out = append(out, anchor{href: href, text: strings.TrimSpace(nodeText(a))})
	}
	return out
}

func TestRender_Ordering(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{"a": KindDirectory, "B": KindDirectory, "c.txt": KindFile}, nil)

	doc := Render("/docs/", []string{"c.txt", "a", "B"}, stat)

	assert.Equal(t, []anchor{
		{href: "/", text: "Parent Directory"},
		{href: "/docs/B", text: "B/"},
		{href: "/docs/a", text: "a/"},
		{href: "/docs/c.txt", text: "c.txt"},
	}, anchors(t, doc))
}

func TestRender_EscapesHostileNames(t *testing.T) {
	t.Parallel()

	names := []string{"a<b>.txt", `say "hi" & 'bye'`, "<script>alert(1)</script>"}
	kinds := map[string]Kind{}
	for _, n := range names {
		kinds[n] = KindFile
	}

	doc := Render("/up", names, statTable(kinds, nil))

	assert.Contains(t, doc, "a&lt;b&gt;.txt")
	assert.NotContains(t, doc, "a<b>.txt")
	assert.NotContains(t, doc, "<script>")

	root := parseDoc(t, doc)
	assert.Empty(t, elements(root, "script"), "no executable markup may be introduced")
	assert.Empty(t, elements(root, "b"))

	got := anchors(t, doc)
	require.Len(t, got, len(names)+1)
	texts := make([]string, 0, len(names))
	for _, a := range got[1:] {
		texts = append(texts, a.text)
	}
	assert.ElementsMatch(t, names, texts, "decoded link text must equal the original names")
}

func TestRender_EscapesRequestPath(t *testing.T) {
	t.Parallel()

	doc := Render(`/<i>"x"/`, nil, statTable(nil, nil))
	root := parseDoc(t, doc)

	titles := elements(root, "title")
	require.Len(t, titles, 1)
	assert.Equal(t, `Index of /<i>"x"/`, nodeText(titles[0]))

	headings := elements(root, "h1")
	require.Len(t, headings, 1)
	assert.Equal(t, `Index of /<i>"x"/`, nodeText(headings[0]))
	assert.Empty(t, elements(root, "i"))
}

func TestRender_HrefsArePercentEncoded(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{"q?a#b": KindFile, "50% off": KindDirectory}, nil)

	got := anchors(t, Render("/sale", []string{"q?a#b", "50% off"}, stat))

	require.Len(t, got, 3)
	assert.Equal(t, anchor{href: "/sale/50%25%20off", text: "50% off/"}, got[1])
	assert.Equal(t, anchor{href: "/sale/q%3Fa%23b", text: "q?a#b"}, got[2])
}

func TestRender_LinkConstruction(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{"x": KindFile}, nil)

	for _, reqPath := range []string{"/a/b", "/a/b/"} {
		t.Run(reqPath, func(t *testing.T) {
			t.Parallel()
			got := anchors(t, Render(reqPath, []string{"x"}, stat))

			require.Len(t, got, 2)
			assert.Equal(t, "/a", got[0].href)
			assert.Equal(t, "/a/b/x", got[1].href, "exactly one separator between path and name")
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{"d": KindDirectory, "f<1>": KindFile, "f2": KindFile}, nil)

	first := Render("/r", []string{"f2", "d", "f<1>"}, stat)
	second := Render("/r", []string{"f2", "d", "f<1>"}, stat)
	reordered := Render("/r", []string{"f<1>", "f2", "d"}, stat)

	assert.Equal(t, first, second)
	assert.Equal(t, first, reordered, "input order must not affect output")
}

func TestRender_EmptyDirectory(t *testing.T) {
	t.Parallel()

	doc := Render("/empty/", []string{}, statTable(nil, nil))
	root := parseDoc(t, doc)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	for _, tag := range []string{"html", "head", "title", "style", "body", "h1", "ul"} {
		assert.Len(t, elements(root, tag), 1, "expected one <%s>", tag)
	}
	assert.Equal(t, []anchor{{href: "/", text: "Parent Directory"}}, anchors(t, doc))
	assert.Len(t, elements(root, "li"), 1)
}

func TestRender_PartialFailure(t *testing.T) {
	t.Parallel()

	stat := statTable(map[string]Kind{"one": KindFile, "three": KindDirectory}, nil)

	got := anchors(t, Render("/", []string{"one", "two", "three"}, stat))

	assert.Equal(t, []anchor{
		{href: "/", text: "Parent Directory"},
		{href: "/three", text: "three/"},
		{href: "/one", text: "one"},
	}, got)
}

func TestRender_NoExternalResources(t *testing.T) {
	t.Parallel()

	root := parseDoc(t, Render("/", nil, statTable(nil, nil)))

	assert.Empty(t, elements(root, "link"))
	assert.Empty(t, elements(root, "script"))
	assert.Empty(t, elements(root, "img"))
}

func TestChildPrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":     "/",
		"/":    "/",
		"/a":   "/a/",
		"/a/":  "/a/",
		"/a/b": "/a/b/",
	}
	for in, want := range tests {
		assert.Equal(t, want, ChildPrefix(in), "ChildPrefix(%q)", in)
	}
}

func TestParentPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":       "/",
		"/":      "/",
		"//":     "/",
		"/a":     "/",
		"/a/":    "/",
		"/a/b":   "/a",
		"/a/b/":  "/a",
		"/a/b/c": "/a/b",
		"a":      "/",
		"a/b":    "a",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParentPath(in), "ParentPath(%q)", in)
	}
}
