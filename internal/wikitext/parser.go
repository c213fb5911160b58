// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import "strings"

// Parser converts markup into nodes. The zero value is ready to use and
// safe for concurrent use.
type Parser struct{}

// New returns a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse returns the node tree for text. It never fails: constructs that do
// not close, or that are not recognised, come back as Text.
func (Parser) Parse(text string) []Node {
	p := &parser{src: text}
	return p.blocks(0, len(text))
}

var redirectKeywords = []string{"#REDIRECT", "#ПЕРЕНАПРАВЛЕНИЕ"}

type parser struct {
	src string

	// Bracket pairings over the whole of src, built on first use.
	braceOpens map[int]opening
	linkOpens  map[int]opening
}

// blocks parses src[pos:end] line by line.
func (p *parser) blocks(pos, end int) []Node {
	var nodes []Node

	if n, next, ok := p.redirect(pos, end); ok {
		nodes = append(nodes, n)
		rest, after := p.paragraphLine(next, end)
		nodes = append(nodes, rest...)
		pos = after
	}

	for pos < end {
		le := p.lineEnd(pos, end)
		line := p.src[pos:le]

		switch {
		case isBlank(line):
			start := pos
			for pos < end {
				le := p.lineEnd(pos, end)
				if !isBlank(p.src[pos:le]) {
					break
				}
				pos = skipNewline(p.src, le, end)
			}
			nodes = append(nodes, ParagraphBreak{Range{start, pos}})
			continue

		case line[0] == '=':
			if h, ok := p.heading(pos, le); ok {
				nodes = append(nodes, h)
				pos = skipNewline(p.src, le, end)
				continue
			}

		case isListChar(line[0]):
			n, next := p.list(pos, end)
			nodes = append(nodes, n)
			pos = next
			continue

		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "{|"):
			n, next := p.table(pos, end)
			nodes = append(nodes, n)
			pos = next
			continue

		case strings.HasPrefix(line, "----"):
			dashes := runLen(p.src, pos, le, '-')
			nodes = append(nodes, HorizontalDivider{Range{pos, pos + dashes}})
			rest, next := p.paragraphLine(pos+dashes, end)
			nodes = append(nodes, rest...)
			pos = next
			continue

		case line[0] == ' ':
			n, next := p.preformatted(pos, end)
			nodes = append(nodes, n)
			pos = next
			continue
		}

		rest, next := p.paragraphLine(pos, end)
		nodes = append(nodes, rest...)
		pos = next
	}

	return nodes
}

// paragraphLine parses one line of running text. The line break that ends
// it is kept as a Text node so line structure survives extraction.
func (p *parser) paragraphLine(pos, end int) ([]Node, int) {
	nodes, next := p.inline(pos, end, true)
	if next < end && p.src[next] == '\n' {
		nodes = append(nodes, Text{Range{next, next + 1}, "\n"})
		next++
	}
	return nodes, next
}

func (p *parser) redirect(pos, end int) (Node, int, bool) {
	line := p.src[pos:p.lineEnd(pos, end)]
	for _, kw := range redirectKeywords {
		if len(line) < len(kw) || !strings.EqualFold(line[:len(kw)], kw) {
			continue
		}
		rest := line[len(kw):]
		open := strings.Index(rest, "[[")
		closing := strings.Index(rest, "]]")
		if open < 0 || closing < open {
			return nil, pos, false
		}
		stop := pos + len(kw) + closing + 2
		target := strings.TrimSpace(rest[open+2 : closing])
		return Redirect{Range{pos, stop}, target}, stop, true
	}
	return nil, pos, false
}

func (p *parser) heading(pos, le int) (Node, bool) {
	line := strings.TrimRight(p.src[pos:le], " \t\r")
	left := runLen(line, 0, len(line), '=')
	right := 0
	for right < len(line) && line[len(line)-1-right] == '=' {
		right++
	}
	level := min(left, right, 6)
	for level > 0 && 2*level >= len(line) {
		level--
	}
	if level == 0 {
		return nil, false
	}
	nodes, _ := p.inline(pos+level, pos+len(line)-level, true)
	return Heading{Range: Range{pos, le}, Level: level, Nodes: nodes}, true
}

type listLine struct {
	prefix string
	start  int
	end    int
	nodes  []Node
}

// list consumes consecutive lines whose first character belongs to the same
// list class as the line at pos.
func (p *parser) list(pos, end int) (Node, int) {
	class := listClass(p.src[pos])
	var lines []listLine
	for pos < end && isListChar(p.src[pos]) && listClass(p.src[pos]) == class {
		i := pos
		for i < end && isListChar(p.src[i]) {
			i++
		}
		nodes, next := p.inline(i, end, true)
		lines = append(lines, listLine{prefix: p.src[pos:i], start: pos, end: next, nodes: nodes})
		pos = skipNewline(p.src, next, end)
	}
	return buildList(lines, 0), pos
}

// buildList groups lines into items at depth; deeper prefixes become a
// nested list inside the preceding item.
func buildList(lines []listLine, depth int) Node {
	var items []ListItem
	for i := 0; i < len(lines); {
		l := lines[i]
		if len(l.prefix) > depth+1 {
			j := i
			for j < len(lines) && len(lines[j].prefix) > depth+1 {
				j++
			}
			nested := buildList(lines[i:j], depth+1)
			if len(items) == 0 {
				items = append(items, ListItem{Start: l.start})
			}
			last := &items[len(items)-1]
			last.Nodes = append(last.Nodes, nested)
			_, last.End = nested.Span()
			i = j
			continue
		}
		items = append(items, ListItem{Start: l.start, End: l.end, Nodes: l.nodes})
		i++
	}

	r := Range{lines[0].start, lines[len(lines)-1].end}
	switch listClass(lines[0].prefix[depth]) {
	case '*':
		return UnorderedList{Range: r, Items: items}
	case '#':
		return OrderedList{Range: r, Items: items}
	default:
		return DefinitionList{Range: r, Items: items}
	}
}

func (p *parser) table(pos, end int) (Node, int) {
	depth := 0
	for i := pos; i < end; {
		le := p.lineEnd(i, end)
		line := strings.TrimLeft(p.src[i:le], " \t:")
		switch {
		case strings.HasPrefix(line, "{|"):
			depth++
		case strings.HasPrefix(line, "|}"):
			depth--
			if depth == 0 {
				return Table{Range{pos, le}}, skipNewline(p.src, le, end)
			}
		}
		i = skipNewline(p.src, le, end)
		if i == le {
			break
		}
	}
	return Table{Range{pos, end}}, end
}

func (p *parser) preformatted(pos, end int) (Node, int) {
	start := pos
	var nodes []Node
	for pos < end && p.src[pos] == ' ' {
		le := p.lineEnd(pos, end)
		if isBlank(p.src[pos:le]) {
			break
		}
		if len(nodes) > 0 {
			nodes = append(nodes, Text{Range{pos - 1, pos}, "\n"})
		}
		inl, next := p.inline(pos+1, end, true)
		nodes = append(nodes, inl...)
		pos = skipNewline(p.src, next, end)
		if pos == next {
			break
		}
	}
	return Preformatted{Range: Range{start, pos}, Nodes: nodes}, pos
}

// inline parses src[pos:end] into inline nodes. With stopAtNewline set it
// returns at the first line break that is not inside a construct, leaving
// the break unconsumed.
func (p *parser) inline(pos, end int, stopAtNewline bool) ([]Node, int) {
	var nodes []Node
	textStart := pos
	flush := func(at int) {
		if at > textStart {
			nodes = append(nodes, Text{Range{textStart, at}, p.src[textStart:at]})
		}
	}

	for pos < end {
		c := p.src[pos]
		if c == '\n' && stopAtNewline {
			break
		}
		if !isInlineStart(c) {
			pos++
			continue
		}
		found, next, ok := p.construct(pos, end)
		if !ok {
			pos++
			continue
		}
		flush(pos)
		nodes = append(nodes, found...)
		pos = next
		textStart = pos
	}
	flush(pos)
	return nodes, pos
}

func isInlineStart(c byte) bool {
	switch c {
	case '{', '[', '<', '\'', '&', '_':
		return true
	}
	return false
}

// construct recognises the inline construct starting at pos, if any.
func (p *parser) construct(pos, end int) ([]Node, int, bool) {
	rest := p.src[pos:end]
	switch {
	case strings.HasPrefix(rest, "{{"):
		n, next, ok := p.braces(pos, end)
		if !ok {
			return nil, pos, false
		}
		return []Node{n}, next, true

	case strings.HasPrefix(rest, "[["):
		n, next, ok := p.link(pos, end)
		if !ok {
			return nil, pos, false
		}
		return []Node{n}, next, true

	case rest[0] == '[':
		n, next, ok := p.externalLink(pos, end)
		if !ok {
			return nil, pos, false
		}
		return []Node{n}, next, true

	case strings.HasPrefix(rest, "<!--"):
		stop := end
		if i := strings.Index(rest[4:], "-->"); i >= 0 {
			stop = pos + 4 + i + 3
		}
		return []Node{Comment{Range{pos, stop}}}, stop, true

	case rest[0] == '<':
		n, next, ok := p.tag(pos, end)
		if !ok {
			return nil, pos, false
		}
		return []Node{n}, next, true

	case strings.HasPrefix(rest, "''"):
		nodes, next := p.emphasis(pos, end)
		return nodes, next, true

	case rest[0] == '&':
		n, next, ok := p.entity(pos, end)
		if !ok {
			return nil, pos, false
		}
		return []Node{n}, next, true

	case strings.HasPrefix(rest, "__"):
		n, next, ok := p.magicWord(pos, end)
		if !ok {
			return nil, pos, false
		}
		return []Node{n}, next, true
	}
	return nil, pos, false
}
