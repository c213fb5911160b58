// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikitext parses wiki markup into a tree of nodes that carry byte
// offsets into the original text.
//
// The node set is closed: every concrete type below implements Node through
// an unexported marker method, so consumers can switch over it exhaustively.
package wikitext

// Node is one element of a parsed markup document. Span returns the byte
// range [start, end) the node covers in the source text.
type Node interface {
	Span() (start, end int)
	node()
}

// Range is embedded by every node type.
type Range struct {
	Start int
	End   int
}

func (r Range) Span() (int, int) { return r.Start, r.End }
func (Range) node()              {}

// Text is a run of literal characters.
type Text struct {
	Range
	Value string
}

// Bold, Italic and BoldItalic cover either a whole emphasised run
// (delimiters included) or a lone delimiter that toggles emphasis.
type Bold struct{ Range }

type Italic struct{ Range }

type BoldItalic struct{ Range }

// Link is an internal [[target|text]] link. Nodes holds the display text.
type Link struct {
	Range
	Target string
	Nodes  []Node
}

// ExternalLink is a bracketed [url text] link. Nodes holds everything
// between the brackets, URL included.
type ExternalLink struct {
	Range
	Nodes []Node
}

// Heading is a =-delimited section title.
type Heading struct {
	Range
	Level int
	Nodes []Node
}

// ParagraphBreak marks one or more blank lines.
type ParagraphBreak struct{ Range }

// ListItem is one entry of a list; nested lists appear among its Nodes.
type ListItem struct {
	Start int
	End   int
	Nodes []Node
}

type UnorderedList struct {
	Range
	Items []ListItem
}

type OrderedList struct {
	Range
	Items []ListItem
}

// DefinitionList covers both ; term and : definition lines.
type DefinitionList struct {
	Range
	Items []ListItem
}

// Preformatted is a block of lines indented by a leading space.
type Preformatted struct {
	Range
	Nodes []Node
}

// Tag is an extension tag such as <ref> or <nowiki> together with its content.
type Tag struct {
	Range
	Name  string
	Nodes []Node
}

// Template is a {{name|args}} transclusion.
type Template struct {
	Range
	Name string
}

type Table struct{ Range }

// Image is a [[File:...]] embed, caption included.
type Image struct {
	Range
	Target string
}

type Category struct {
	Range
	Target string
}

type Comment struct{ Range }

// MagicWord is a behaviour switch such as __NOTOC__.
type MagicWord struct {
	Range
	Name string
}

type Redirect struct {
	Range
	Target string
}

// Parameter is a {{{name}}} template parameter reference.
type Parameter struct{ Range }

type CharacterEntity struct {
	Range
	Value string
}

// StartTag and EndTag are HTML tags whose content is parsed as siblings.
type StartTag struct {
	Range
	Name string
}

type EndTag struct {
	Range
	Name string
}

type HorizontalDivider struct{ Range }
