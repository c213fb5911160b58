// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import "strings"

var (
	fileNamespaces     = []string{"file", "image", "файл", "изображение"}
	categoryNamespaces = []string{"category", "категория"}
	externalSchemes    = []string{"http://", "https://", "ftp://", "//", "mailto:"}
)

// extensionTags own their content; everything else between a known HTML
// start and end tag is parsed as ordinary siblings.
var extensionTags = map[string]bool{
	"ref": true, "references": true, "nowiki": true, "pre": true, "gallery": true,
	"math": true, "poem": true, "source": true, "syntaxhighlight": true,
	"templatedata": true, "timeline": true, "imagemap": true, "noinclude": true,
	"includeonly": true, "onlyinclude": true, "hiero": true, "score": true,
	"graph": true, "categorytree": true, "indicator": true, "mapframe": true,
	"maplink": true, "chem": true, "ce": true,
}

// rawTags keep their content as a single Text node.
var rawTags = map[string]bool{
	"nowiki": true, "pre": true, "math": true, "source": true,
	"syntaxhighlight": true, "templatedata": true, "timeline": true,
	"hiero": true, "score": true, "graph": true, "chem": true, "ce": true,
}

var htmlTags = map[string]bool{
	"abbr": true, "b": true, "bdi": true, "bdo": true, "blockquote": true,
	"br": true, "caption": true, "center": true, "cite": true, "code": true,
	"data": true, "dd": true, "del": true, "dfn": true, "div": true, "dl": true,
	"dt": true, "em": true, "font": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "hr": true, "i": true, "ins": true,
	"kbd": true, "li": true, "mark": true, "ol": true, "p": true, "q": true,
	"rb": true, "rp": true, "rt": true, "rtc": true, "ruby": true, "s": true,
	"samp": true, "small": true, "span": true, "strike": true, "strong": true,
	"sub": true, "sup": true, "table": true, "td": true, "th": true,
	"time": true, "tr": true, "tt": true, "u": true, "ul": true, "var": true,
	"wbr": true,
}

// braces parses {{template}} and {{{parameter}}} constructs.
func (p *parser) braces(pos, end int) (Node, int, bool) {
	o, ok := p.braceIndex()[pos]
	if !ok || o.stop < 0 || o.stop > end {
		return nil, pos, false
	}
	stop := o.stop
	if o.width == 3 {
		return Parameter{Range{pos, stop}}, stop, true
	}
	inner := p.src[pos+2 : stop-2]
	name := inner
	if i := strings.IndexAny(name, "|\n"); i >= 0 {
		name = name[:i]
	}
	return Template{Range: Range{pos, stop}, Name: strings.TrimSpace(name)}, stop, true
}

// opening is a delimiter that may start a construct. stop is the offset just
// past its matching close, or -1 when it never closes.
type opening struct {
	width int
	stop  int
}

func (p *parser) braceIndex() map[int]opening {
	if p.braceOpens == nil {
		p.braceOpens = indexBraces(p.src)
	}
	return p.braceOpens
}

func (p *parser) linkIndex() map[int]opening {
	if p.linkOpens == nil {
		p.linkOpens = indexLinks(p.src)
	}
	return p.linkOpens
}

// indexBraces pairs brace runs in one pass over src. A run of { splits into
// triples from the left, then a final pair; a lone leftover brace opens
// nothing. A close run pops the innermost opening, taking as many braces as
// it has, or two against a triple when only two remain. Closes with nothing
// open are ignored. Each run is measured once.
func indexBraces(src string) map[int]opening {
	idx := make(map[int]opening)
	var stack []int
	for i := 0; i < len(src); {
		switch src[i] {
		case '{':
			r := runLen(src, i, len(src), '{')
			runEnd := i + r
			for ; r >= 3; r -= 3 {
				idx[i] = opening{width: 3, stop: -1}
				stack = append(stack, i)
				i += 3
			}
			if r == 2 {
				idx[i] = opening{width: 2, stop: -1}
				stack = append(stack, i)
			}
			i = runEnd
		case '}':
			r := runLen(src, i, len(src), '}')
			runEnd := i + r
			for r > 0 && len(stack) > 0 {
				top := stack[len(stack)-1]
				o := idx[top]
				switch {
				case r >= o.width:
					i += o.width
					r -= o.width
				case r == 2:
					i += 2
					r -= 2
				default:
					i++
					r--
					continue
				}
				stack = stack[:len(stack)-1]
				o.stop = i
				idx[top] = o
			}
			i = runEnd
		default:
			next := strings.IndexAny(src[i:], "{}")
			if next < 0 {
				return idx
			}
			i += next
		}
	}
	return idx
}

// link parses [[target|text]], [[File:...]] and [[Category:...]].
func (p *parser) link(pos, end int) (Node, int, bool) {
	o, ok := p.linkIndex()[pos]
	if !ok || o.stop < 0 || o.stop > end {
		return nil, pos, false
	}
	stop := o.stop
	innerStart, innerEnd := pos+2, stop-2
	inner := p.src[innerStart:innerEnd]

	targetEnd := innerEnd
	if i := strings.IndexByte(inner, '|'); i >= 0 && !strings.ContainsAny(inner[:i], "[{") {
		targetEnd = innerStart + i
	}
	rawTarget := p.src[innerStart:targetEnd]
	target := strings.TrimSpace(rawTarget)

	switch {
	case hasNamespace(target, fileNamespaces):
		return Image{Range: Range{pos, stop}, Target: target}, stop, true
	case hasNamespace(target, categoryNamespaces):
		return Category{Range: Range{pos, stop}, Target: target}, stop, true
	}
	if strings.ContainsRune(rawTarget, '\n') {
		return nil, pos, false
	}

	textStart, textEnd := innerStart, targetEnd
	if targetEnd < innerEnd && targetEnd+1 < innerEnd {
		textStart, textEnd = targetEnd+1, innerEnd
	} else if strings.HasPrefix(rawTarget, ":") {
		textStart++
	}
	nodes, _ := p.inline(textStart, textEnd, false)
	return Link{Range: Range{pos, stop}, Target: strings.TrimPrefix(target, ":"), Nodes: nodes}, stop, true
}

// indexLinks pairs [[ with ]] in one pass over src, innermost first.
// Closes with nothing open are ignored.
func indexLinks(src string) map[int]opening {
	idx := make(map[int]opening)
	var stack []int
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "[["):
			idx[i] = opening{width: 2, stop: -1}
			stack = append(stack, i)
			i += 2
		case strings.HasPrefix(src[i:], "]]"):
			if n := len(stack); n > 0 {
				top := stack[n-1]
				stack = stack[:n-1]
				idx[top] = opening{width: 2, stop: i + 2}
			}
			i += 2
		default:
			next := strings.IndexAny(src[i+1:], "[]")
			if next < 0 {
				return idx
			}
			i += 1 + next
		}
	}
	return idx
}

func hasNamespace(target string, namespaces []string) bool {
	i := strings.IndexByte(target, ':')
	if i <= 0 {
		return false
	}
	ns := strings.ToLower(strings.TrimSpace(target[:i]))
	for _, n := range namespaces {
		if ns == n {
			return true
		}
	}
	return false
}

// externalLink parses [url text]. The closing bracket must be on the same line.
func (p *parser) externalLink(pos, end int) (Node, int, bool) {
	rest := strings.ToLower(p.src[pos+1 : min(end, pos+1+len("https://"))])
	scheme := false
	for _, s := range externalSchemes {
		if strings.HasPrefix(rest, s) {
			scheme = true
			break
		}
	}
	if !scheme {
		return nil, pos, false
	}
	le := p.lineEnd(pos, end)
	i := strings.IndexByte(p.src[pos+1:le], ']')
	if i < 0 {
		return nil, pos, false
	}
	closing := pos + 1 + i
	nodes, _ := p.inline(pos+1, closing, true)
	return ExternalLink{Range: Range{pos, closing + 1}, Nodes: nodes}, closing + 1, true
}

// tag parses extension tags with their content and HTML start/end tags.
func (p *parser) tag(pos, end int) (Node, int, bool) {
	i := pos + 1
	closing := false
	if i < end && p.src[i] == '/' {
		closing = true
		i++
	}
	nameStart := i
	for i < end && isTagNameChar(p.src[i]) {
		i++
	}
	if i == nameStart || i == end {
		return nil, pos, false
	}
	switch p.src[i] {
	case ' ', '\t', '\n', '/', '>':
	default:
		return nil, pos, false
	}
	name := strings.ToLower(p.src[nameStart:i])
	if !extensionTags[name] && !htmlTags[name] {
		return nil, pos, false
	}
	gt := strings.IndexByte(p.src[i:end], '>')
	if gt < 0 {
		return nil, pos, false
	}
	attrs := p.src[i : i+gt]
	if strings.ContainsRune(attrs, '<') {
		return nil, pos, false
	}
	tagEnd := i + gt + 1

	if closing {
		return EndTag{Range: Range{pos, tagEnd}, Name: name}, tagEnd, true
	}
	if !extensionTags[name] {
		return StartTag{Range: Range{pos, tagEnd}, Name: name}, tagEnd, true
	}
	if strings.HasSuffix(strings.TrimSpace(attrs), "/") {
		return Tag{Range: Range{pos, tagEnd}, Name: name}, tagEnd, true
	}

	closeStart, closeEnd := p.closeTag(name, tagEnd, end)
	if closeStart < 0 {
		return StartTag{Range: Range{pos, tagEnd}, Name: name}, tagEnd, true
	}
	var nodes []Node
	switch {
	case closeStart == tagEnd:
	case rawTags[name]:
		nodes = []Node{Text{Range{tagEnd, closeStart}, p.src[tagEnd:closeStart]}}
	default:
		nodes, _ = p.inline(tagEnd, closeStart, false)
	}
	return Tag{Range: Range{pos, closeEnd}, Name: name, Nodes: nodes}, closeEnd, true
}

// closeTag finds </name> at or after from, matching the name case-insensitively.
func (p *parser) closeTag(name string, from, end int) (int, int) {
	for i := from; i < end; {
		j := strings.Index(p.src[i:end], "</")
		if j < 0 {
			return -1, -1
		}
		start := i + j
		n := start + 2
		if n+len(name) <= end && strings.EqualFold(p.src[n:n+len(name)], name) {
			after := n + len(name)
			if gt := strings.IndexByte(p.src[after:end], '>'); gt >= 0 &&
				strings.TrimSpace(p.src[after:after+gt]) == "" {
				return start, after + gt + 1
			}
		}
		i = start + 2
	}
	return -1, -1
}

func isTagNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// emphasis parses a run of two or more apostrophes. When the run closes
// with an equal run over plain text on the same line, a single node covers
// both delimiters and the text; otherwise the node covers the delimiter alone.
func (p *parser) emphasis(pos, end int) ([]Node, int) {
	n := runLen(p.src, pos, end, '\'')
	var nodes []Node

	lead := 0
	switch {
	case n > 5:
		lead = n - 5
	case n == 4:
		lead = 1
	}
	if lead > 0 {
		nodes = append(nodes, Text{Range{pos, pos + lead}, p.src[pos : pos+lead]})
	}
	start := pos + lead
	k := n - lead
	delimEnd := start + k

	stop := delimEnd
	for stop < end && !isEmphasisStop(p.src[stop]) {
		stop++
	}
	if stop > delimEnd && stop < end && p.src[stop] == '\'' && runLen(p.src, stop, end, '\'') == k {
		return append(nodes, emphasisNode(k, Range{start, stop + k})), stop + k
	}
	return append(nodes, emphasisNode(k, Range{start, delimEnd})), delimEnd
}

func isEmphasisStop(c byte) bool {
	switch c {
	case '\'', '[', '{', '<', '&', '\n':
		return true
	}
	return false
}

func emphasisNode(k int, r Range) Node {
	switch k {
	case 5:
		return BoldItalic{r}
	case 3:
		return Bold{r}
	default:
		return Italic{r}
	}
}

// entity parses &name;, &#123; and &#x1F;.
func (p *parser) entity(pos, end int) (Node, int, bool) {
	i := pos + 1
	for i < end && i-pos <= 10 && (isTagNameChar(p.src[i]) || p.src[i] == '#') {
		i++
	}
	if i == pos+1 || i >= end || p.src[i] != ';' {
		return nil, pos, false
	}
	return CharacterEntity{Range: Range{pos, i + 1}, Value: p.src[pos : i+1]}, i + 1, true
}

// magicWord parses __WORD__ behaviour switches.
func (p *parser) magicWord(pos, end int) (Node, int, bool) {
	i := pos + 2
	for i < end && p.src[i] >= 'A' && p.src[i] <= 'Z' {
		i++
	}
	if i == pos+2 || !strings.HasPrefix(p.src[i:end], "__") {
		return nil, pos, false
	}
	return MagicWord{Range: Range{pos, i + 2}, Name: p.src[pos+2 : i]}, i + 2, true
}

func (p *parser) lineEnd(pos, end int) int {
	if i := strings.IndexByte(p.src[pos:end], '\n'); i >= 0 {
		return pos + i
	}
	return end
}

func skipNewline(src string, pos, end int) int {
	if pos < end && src[pos] == '\n' {
		return pos + 1
	}
	return pos
}

func runLen(s string, pos, end int, c byte) int {
	n := 0
	for pos+n < end && s[pos+n] == c {
		n++
	}
	return n
}

func isBlank(line string) bool {
	return strings.Trim(line, " \t\r") == ""
}

func isListChar(c byte) bool {
	return c == '*' || c == '#' || c == ':' || c == ';'
}

// listClass maps ; and : onto one class so term and definition lines share a list.
func listClass(c byte) byte {
	if c == ';' {
		return ':'
	}
	return c
}
