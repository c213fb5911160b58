// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plaintext turns parsed wiki markup into paragraph-structured plain
// text: node extraction, template expansion, residue scrubbing and pruning
// of empty structural sections.
package plaintext

import (
	"bytes"
	"strings"

	"github.com/pdiddy/wikiclean/internal/wikitext"
)

// citationTag is the extension tag whose content never reaches the output.
const citationTag = "ref"

// paragraphSep separates paragraphs in extracted text.
const paragraphSep = "\n\n"

// Emphasis delimiters, longest first so a bold-italic run is never read as
// a bold delimiter plus a stray apostrophe pair.
var emphasisDelimiters = []string{"'''''", "'''", "''"}

// mediaCaptionMarkers flag link text that is really a leaked image caption.
var mediaCaptionMarkers = []string{"Файл:", "File:"}

var bareURLPrefixes = []string{"http://", "https://"}

// Extract renders nodes as paragraphs separated by blank lines. Emphasis
// nodes are read from src by byte range. With skipLists set, list contents
// are dropped.
func Extract(nodes []wikitext.Node, src string, skipLists bool) string {
	e := extractor{src: src, skipLists: skipLists}
	return e.render(nodes)
}

type extractor struct {
	src       string
	skipLists bool
}

// state is threaded through the walk. pending is the paragraph being built;
// text holds completed paragraphs, each followed by a separator.
type state struct {
	pending []byte
	text    []byte
}

func (e extractor) render(nodes []wikitext.Node) string {
	var s state
	for _, n := range nodes {
		s = e.visit(s, n)
	}
	return s.finish()
}

func (e extractor) visit(s state, n wikitext.Node) state {
	switch n := n.(type) {
	case wikitext.Text:
		s.pending = append(s.pending, n.Value...)

	case wikitext.Bold, wikitext.Italic, wikitext.BoldItalic:
		start, end := n.Span()
		s.pending = append(s.pending, stripEmphasis(e.src[start:end])...)

	case wikitext.Link:
		display := e.render(n.Nodes)
		if !containsAny(display, mediaCaptionMarkers) {
			s.pending = append(s.pending, display...)
		}

	case wikitext.ExternalLink:
		label := e.render(n.Nodes)
		if !hasAnyPrefix(label, bareURLPrefixes) {
			s.pending = append(s.pending, label...)
		}

	case wikitext.Heading:
		heading := strings.TrimSpace(e.render(n.Nodes))
		s = s.flush()
		s.pending = s.pending[:0]
		s.text = append(s.text, heading...)
		s.text = append(s.text, paragraphSep...)

	case wikitext.ParagraphBreak:
		s = s.flush()

	case wikitext.UnorderedList:
		s = e.items(s, n.Items)
	case wikitext.OrderedList:
		s = e.items(s, n.Items)
	case wikitext.DefinitionList:
		s = e.items(s, n.Items)

	case wikitext.Preformatted:
		s.pending = append(s.pending, e.render(n.Nodes)...)

	case wikitext.Tag:
		if n.Name != citationTag {
			s.pending = append(s.pending, e.render(n.Nodes)...)
		}
	}
	// Templates, tables, images, categories, comments, magic words,
	// redirects, parameters, entities, HTML tags and dividers add nothing.
	return s
}

// items appends each non-empty list item inline, followed by a space.
func (e extractor) items(s state, items []wikitext.ListItem) state {
	if e.skipLists {
		return s
	}
	for _, item := range items {
		text := strings.TrimSpace(e.render(item.Nodes))
		if text != "" {
			s.pending = append(s.pending, text...)
			s.pending = append(s.pending, ' ')
		}
	}
	return s
}

// flush moves a non-blank pending paragraph into text.
func (s state) flush() state {
	p := bytes.TrimSpace(s.pending)
	if len(p) == 0 {
		return s
	}
	s.text = append(s.text, p...)
	s.text = append(s.text, paragraphSep...)
	s.pending = s.pending[:0]
	return s
}

// finish appends the last paragraph without a trailing separator.
func (s state) finish() string {
	if p := bytes.TrimSpace(s.pending); len(p) > 0 {
		s.text = append(s.text, p...)
	}
	return string(s.text)
}

// stripEmphasis removes emphasis delimiters from both ends of raw, longest
// delimiter first. Each delimiter is trimmed repeatedly.
func stripEmphasis(raw string) string {
	for _, d := range emphasisDelimiters {
		for strings.HasPrefix(raw, d) {
			raw = raw[len(d):]
		}
		for strings.HasSuffix(raw, d) {
			raw = raw[:len(raw)-len(d)]
		}
	}
	return raw
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
