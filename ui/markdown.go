package ui

import (
	"html/template"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown turns a chat message into HTML. Raw HTML in the message is
// dropped, links to untrusted protocols are rendered as plain text and images
// with such sources are left out.
func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(src))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          html.CommonFlags | html.HrefTargetBlank | html.SkipHTML | html.Safelink | html.NofollowLinks,
		RenderNodeHook: skipUnsafeImages,
	})
	return template.HTML(markdown.Render(doc, renderer))
}

// skipUnsafeImages swallows images whose source Safelink would reject; the
// html renderer only checks links.
func skipUnsafeImages(_ io.Writer, node ast.Node, _ bool) (ast.WalkStatus, bool) {
	img, ok := node.(*ast.Image)
	if !ok {
		return ast.GoToNext, false
	}
	// IsSafeURL slices the longest relative prefix before checking the length
	if len(img.Destination) >= len("../") && parser.IsSafeURL(img.Destination) {
		return ast.GoToNext, false
	}
	return ast.SkipChildren, true
}
