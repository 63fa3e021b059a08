// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docconvert

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLExtractor renders HTML documents as Markdown.
type HTMLExtractor struct {
	keepDataURIs bool
}

// NewHTMLExtractor creates a new HTMLExtractor. Unless keepDataURIs is set, inline
// base64 payloads are shortened in the output.
func NewHTMLExtractor(keepDataURIs bool) *HTMLExtractor {
	return &HTMLExtractor{keepDataURIs: keepDataURIs}
}

func (c *HTMLExtractor) Accepts(info StreamInfo) bool {
	switch info.Extension {
	case ".html", ".htm", ".xhtml":
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "text/html") || strings.HasPrefix(mime, "application/xhtml")
}

func (c *HTMLExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return c.extractString(decodeText(data))
}

func (c *HTMLExtractor) extractString(src string) (*ExtractResult, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	title := htmlTitle(doc)
	stripNodes(doc, atom.Script, atom.Style, atom.Noscript)

	var cleaned strings.Builder
	if err := html.Render(&cleaned, doc); err != nil {
		return nil, fmt.Errorf("render HTML: %w", err)
	}
	out, err := htmlConverter().ConvertString(cleaned.String())
	if err != nil {
		return nil, fmt.Errorf("convert HTML to markdown: %w", err)
	}

	if !c.keepDataURIs {
		out = truncateDataURIs(out)
	}
	return &ExtractResult{Markdown: out, Title: title}, nil
}

func htmlConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
}

// htmlFragmentToMarkdown converts embedded HTML, as found in feed items.
func htmlFragmentToMarkdown(src string) (string, error) {
	return htmlConverter().ConvertString(src)
}

var reDataURI = regexp.MustCompile(`(data:[a-zA-Z0-9/+.-]+;base64,)[A-Za-z0-9+/=]{64,}`)

func truncateDataURIs(md string) string {
	return reDataURI.ReplaceAllString(md, "${1}...")
}

func htmlTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(b.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := htmlTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// stripNodes removes every element of the given kinds, including its subtree.
func stripNodes(n *html.Node, kinds ...atom.Atom) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		drop := false
		if c.Type == html.ElementNode {
			for _, k := range kinds {
				if c.DataAtom == k {
					drop = true
					break
				}
			}
		}
		if drop {
			n.RemoveChild(c)
		} else {
			stripNodes(c, kinds...)
		}
		c = next
	}
}
