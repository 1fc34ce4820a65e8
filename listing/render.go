package listing

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"
	"path"
	"strings"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// ContentType of every rendered document
const ContentType = "text/html; charset=utf-8"

type link struct {
	Href string
	Name string
}

type page struct {
	Path       string
	ParentHref string
	Dirs       []link
	Files      []link
	UpIcon     template.HTML
	FolderIcon template.HTML
	FileIcon   template.HTML
}

// Render classifies names with stat, then renders a self-contained HTML
// index titled "Index of {requestPath}". The first item always links to the
// textual parent of requestPath, followed by directories then files.
//
// Every value derived from requestPath or a filesystem name is escaped, so
// hostile names cannot inject markup. Output is deterministic for the same
// inputs.
func Render(requestPath string, names []string, stat StatFunc) string {
	return RenderListing(requestPath, Build(names, stat))
}

// RenderListing renders an already built listing. See [Render].
func RenderListing(requestPath string, l Listing) string {
	prefix := ChildPrefix(requestPath)
	p := page{
		Path:       requestPath,
		ParentHref: escapeHref(ParentPath(requestPath)),
		Dirs:       links(prefix, l.Dirs),
		Files:      links(prefix, l.Files),
		UpIcon:     arrowUpIcon,
		FolderIcon: folderIcon,
		FileIcon:   fileIcon,
	}

	var buf bytes.Buffer
	// The template is parsed at init and only writes to memory
	if err := indexTmpl.Execute(&buf, p); err != nil {
		panic("listing: executing index template: " + err.Error())
	}
	return buf.String()
}

// ChildPrefix returns requestPath with exactly one trailing separator
func ChildPrefix(requestPath string) string {
	if strings.HasSuffix(requestPath, "/") {
		return requestPath
	}
	return requestPath + "/"
}

// ParentPath strips the final segment of requestPath, ignoring a trailing
// separator. The root is its own parent. This is purely textual; the parent
// need not exist on disk.
func ParentPath(requestPath string) string {
	trimmed := strings.TrimRight(requestPath, "/")
	if trimmed == "" {
		return "/"
	}
	parent := path.Dir(trimmed)
	if parent == "." {
		// relative request path with a single segment
		return "/"
	}
	return parent
}

func links(prefix string, entries []Entry) []link {
	out := make([]link, 0, len(entries))
	for _, e := range entries {
		out = append(out, link{Href: escapeHref(prefix + e.Name), Name: e.Name})
	}
	return out
}

// escapeHref percent-encodes p so reserved characters in names (?, #, %)
// stay part of the path. HTML escaping is left to the template.
func escapeHref(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
