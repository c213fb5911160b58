// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(src string) []Node {
	return New().Parse(src)
}

func TestParse_Heading(t *testing.T) {
	nodes := parse("== Title ==\nBody")
	require.Len(t, nodes, 2)

	h, ok := nodes[0].(Heading)
	require.True(t, ok, "first node should be a heading, got %T", nodes[0])
	assert.Equal(t, 2, h.Level)
	require.Len(t, h.Nodes, 1)
	assert.Equal(t, " Title ", h.Nodes[0].(Text).Value)

	assert.Equal(t, "Body", nodes[1].(Text).Value)
}

func TestParse_HeadingLevels(t *testing.T) {
	tests := []struct {
		line  string
		level int
	}{
		{"=A=", 1},
		{"===A===", 3},
		{"==A===", 2},
		{"=======A=======", 6},
		{"== A ==  ", 2},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			nodes := parse(tt.line)
			require.NotEmpty(t, nodes)
			h, ok := nodes[0].(Heading)
			require.True(t, ok, "got %T", nodes[0])
			assert.Equal(t, tt.level, h.Level)
		})
	}
}

func TestParse_ParagraphBreak(t *testing.T) {
	nodes := parse("a\n\n\nb")
	require.Len(t, nodes, 4)
	assert.Equal(t, "a", nodes[0].(Text).Value)
	assert.Equal(t, "\n", nodes[1].(Text).Value)
	assert.IsType(t, ParagraphBreak{}, nodes[2])
	assert.Equal(t, "b", nodes[3].(Text).Value)
}

func TestParse_Emphasis(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, n Node)
		raw   string
	}{
		{"bold", "x '''bold''' y", func(t *testing.T, n Node) { assert.IsType(t, Bold{}, n) }, "'''bold'''"},
		{"italic", "x ''it'' y", func(t *testing.T, n Node) { assert.IsType(t, Italic{}, n) }, "''it''"},
		{"bold italic", "x '''''both''''' y", func(t *testing.T, n Node) { assert.IsType(t, BoldItalic{}, n) }, "'''''both'''''"},
		{"toggle over link", "x '''[[a]]''' y", func(t *testing.T, n Node) { assert.IsType(t, Bold{}, n) }, "'''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := parse(tt.src)
			require.GreaterOrEqual(t, len(nodes), 2)
			tt.check(t, nodes[1])
			start, end := nodes[1].Span()
			assert.Equal(t, tt.raw, tt.src[start:end])
		})
	}
}

func TestParse_Templates(t *testing.T) {
	nodes := parse("a {{num|5}} b")
	require.Len(t, nodes, 3)
	tpl, ok := nodes[1].(Template)
	require.True(t, ok, "got %T", nodes[1])
	assert.Equal(t, "num", tpl.Name)

	nested := "{{a|{{b}}}}"
	nodes = parse(nested)
	require.Len(t, nodes, 1)
	start, end := nodes[0].Span()
	assert.Equal(t, 0, start)
	assert.Equal(t, len(nested), end)

	nodes = parse("{{{1}}}")
	require.Len(t, nodes, 1)
	assert.IsType(t, Parameter{}, nodes[0])

	multi := "{{Карточка\n|имя = X\n}}\nText"
	nodes = parse(multi)
	require.NotEmpty(t, nodes)
	tpl, ok = nodes[0].(Template)
	require.True(t, ok, "got %T", nodes[0])
	assert.Equal(t, "Карточка", tpl.Name)
}

func TestParse_UnclosedTemplateIsText(t *testing.T) {
	nodes := parse("{{oops")
	require.Len(t, nodes, 1)
	assert.Equal(t, "{{oops", nodes[0].(Text).Value)
}

func TestParse_BraceRuns(t *testing.T) {
	// Leading braces that cannot pair stay text; the innermost pair wins.
	nodes := parse("{{{{{x}}")
	require.Len(t, nodes, 2)
	assert.Equal(t, "{{{", nodes[0].(Text).Value)
	tpl, ok := nodes[1].(Template)
	require.True(t, ok, "got %T", nodes[1])
	assert.Equal(t, "x", tpl.Name)

	nodes = parse("{{{{x}}}}")
	require.NotEmpty(t, nodes)
	assert.IsType(t, Parameter{}, nodes[0])
	start, end := nodes[0].Span()
	assert.Equal(t, "{{{{x}}}", "{{{{x}}}}"[start:end])

	nodes = parse("}} {{a}}")
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[1].(Template).Name)
}

// TestParse_LongBracketRuns checks that unbalanced bracket runs parse in
// time proportional to their length.
func TestParse_LongBracketRuns(t *testing.T) {
	inputs := map[string]string{
		"open braces":    strings.Repeat("{", 20000),
		"open pairs":     strings.Repeat("{{", 10000),
		"pairs and text": strings.Repeat("{{x", 7000),
		"close braces":   strings.Repeat("}", 20000),
		"open links":     strings.Repeat("[[", 10000),
		"links and text": strings.Repeat("[[x|", 5000),
	}
	for name, src := range inputs {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			nodes := parse(src)
			elapsed := time.Since(start)

			assert.Less(t, elapsed, 2*time.Second, "parsing %d bytes took %v", len(src), elapsed)
			var text strings.Builder
			for _, n := range nodes {
				tn, ok := n.(Text)
				require.True(t, ok, "got %T", n)
				text.WriteString(tn.Value)
			}
			assert.Equal(t, src, text.String())
		})
	}
}

func TestParse_Links(t *testing.T) {
	nodes := parse("[[Target|label]]")
	require.Len(t, nodes, 1)
	link, ok := nodes[0].(Link)
	require.True(t, ok, "got %T", nodes[0])
	assert.Equal(t, "Target", link.Target)
	require.Len(t, link.Nodes, 1)
	assert.Equal(t, "label", link.Nodes[0].(Text).Value)

	nodes = parse("[[Target]]")
	link = nodes[0].(Link)
	assert.Equal(t, "Target", link.Nodes[0].(Text).Value)

	nodes = parse("[[Target|]]")
	link = nodes[0].(Link)
	assert.Equal(t, "Target", link.Nodes[0].(Text).Value)

	nodes = parse("[[:Категория:Города]]")
	link, ok = nodes[0].(Link)
	require.True(t, ok, "colon link should stay a link, got %T", nodes[0])
	assert.Equal(t, "Категория:Города", link.Nodes[0].(Text).Value)
}

func TestParse_MediaAndCategories(t *testing.T) {
	nodes := parse("[[Файл:x.jpg|thumb|cap [[y]]]]")
	require.Len(t, nodes, 1)
	img, ok := nodes[0].(Image)
	require.True(t, ok, "got %T", nodes[0])
	assert.Equal(t, "Файл:x.jpg", img.Target)

	nodes = parse("[[File:a.png]] [[Image:b.png]]")
	assert.IsType(t, Image{}, nodes[0])
	assert.IsType(t, Image{}, nodes[2])

	nodes = parse("[[Категория:Города]]")
	require.Len(t, nodes, 1)
	assert.IsType(t, Category{}, nodes[0])

	nodes = parse("[[category:Cities]]")
	assert.IsType(t, Category{}, nodes[0])
}

func TestParse_ExternalLink(t *testing.T) {
	nodes := parse("see [https://x.org Example] now")
	require.Len(t, nodes, 3)
	ext, ok := nodes[1].(ExternalLink)
	require.True(t, ok, "got %T", nodes[1])
	require.Len(t, ext.Nodes, 1)
	assert.Equal(t, "https://x.org Example", ext.Nodes[0].(Text).Value)

	nodes = parse("[not a link]")
	require.Len(t, nodes, 1)
	assert.Equal(t, "[not a link]", nodes[0].(Text).Value)
}

func TestParse_Tags(t *testing.T) {
	nodes := parse("a<ref>cite</ref>b")
	require.Len(t, nodes, 3)
	tag, ok := nodes[1].(Tag)
	require.True(t, ok, "got %T", nodes[1])
	assert.Equal(t, "ref", tag.Name)
	require.Len(t, tag.Nodes, 1)
	assert.Equal(t, "cite", tag.Nodes[0].(Text).Value)

	nodes = parse(`a<ref name="x" />b`)
	require.Len(t, nodes, 3)
	tag = nodes[1].(Tag)
	assert.Equal(t, "ref", tag.Name)
	assert.Empty(t, tag.Nodes)

	nodes = parse("<nowiki>'''raw'''</nowiki>")
	require.Len(t, nodes, 1)
	tag = nodes[0].(Tag)
	require.Len(t, tag.Nodes, 1)
	assert.Equal(t, "'''raw'''", tag.Nodes[0].(Text).Value)

	nodes = parse("<small>tiny</small>")
	require.Len(t, nodes, 3)
	assert.IsType(t, StartTag{}, nodes[0])
	assert.Equal(t, "tiny", nodes[1].(Text).Value)
	assert.IsType(t, EndTag{}, nodes[2])

	nodes = parse("a < b")
	require.Len(t, nodes, 1)
	assert.Equal(t, "a < b", nodes[0].(Text).Value)
}

func TestParse_Lists(t *testing.T) {
	nodes := parse("* a\n* b")
	require.Len(t, nodes, 1)
	list, ok := nodes[0].(UnorderedList)
	require.True(t, ok, "got %T", nodes[0])
	require.Len(t, list.Items, 2)
	assert.Equal(t, " a", list.Items[0].Nodes[0].(Text).Value)
	assert.Equal(t, " b", list.Items[1].Nodes[0].(Text).Value)

	nodes = parse("# one\n# two")
	assert.IsType(t, OrderedList{}, nodes[0])

	nodes = parse("; term\n: definition")
	def, ok := nodes[0].(DefinitionList)
	require.True(t, ok, "got %T", nodes[0])
	assert.Len(t, def.Items, 2)
}

func TestParse_NestedList(t *testing.T) {
	nodes := parse("* a\n** b\n* c")
	require.Len(t, nodes, 1)
	list := nodes[0].(UnorderedList)
	require.Len(t, list.Items, 2)
	require.Len(t, list.Items[0].Nodes, 2)
	nested, ok := list.Items[0].Nodes[1].(UnorderedList)
	require.True(t, ok, "got %T", list.Items[0].Nodes[1])
	require.Len(t, nested.Items, 1)
	assert.Equal(t, " b", nested.Items[0].Nodes[0].(Text).Value)
}

func TestParse_Table(t *testing.T) {
	src := "{|\n|-\n| x\n|}\nafter"
	nodes := parse(src)
	require.Len(t, nodes, 2)
	assert.IsType(t, Table{}, nodes[0])
	assert.Equal(t, "after", nodes[1].(Text).Value)

	nodes = parse("{|\n| {|\n| inner\n|}\n|}\nafter")
	require.Len(t, nodes, 2)
	assert.IsType(t, Table{}, nodes[0])
}

func TestParse_BlockMisc(t *testing.T) {
	nodes := parse(" code line")
	require.Len(t, nodes, 1)
	pre, ok := nodes[0].(Preformatted)
	require.True(t, ok, "got %T", nodes[0])
	assert.Equal(t, "code line", pre.Nodes[0].(Text).Value)

	nodes = parse("----\nx")
	assert.IsType(t, HorizontalDivider{}, nodes[0])

	nodes = parse("#REDIRECT [[Target]]")
	require.Len(t, nodes, 1)
	assert.Equal(t, "Target", nodes[0].(Redirect).Target)

	nodes = parse("#перенаправление [[Цель]]")
	require.Len(t, nodes, 1)
	assert.Equal(t, "Цель", nodes[0].(Redirect).Target)
}

func TestParse_InlineMisc(t *testing.T) {
	nodes := parse("a<!-- c -->b")
	require.Len(t, nodes, 3)
	assert.IsType(t, Comment{}, nodes[1])

	nodes = parse("a&nbsp;b")
	require.Len(t, nodes, 3)
	assert.Equal(t, "&nbsp;", nodes[1].(CharacterEntity).Value)

	nodes = parse("__NOTOC__")
	require.Len(t, nodes, 1)
	assert.Equal(t, "NOTOC", nodes[0].(MagicWord).Name)

	nodes = parse("snake_case __ and")
	require.Len(t, nodes, 1)
	assert.IsType(t, Text{}, nodes[0])
}

// TestParse_SpansAreValid checks that every node range is a valid slice of
// the input, including for malformed markup.
func TestParse_SpansAreValid(t *testing.T) {
	inputs := []string{
		"",
		"'''",
		"''''x''''",
		"{{a|{{b|{{{1}}}}}",
		"[[a|[[b]]",
		"]] }} {{",
		"<ref>unclosed",
		"== x",
		"=\n==\n===",
		"* \n**\n#:;",
		"{|\n{|\n|}",
		"[http://x",
		"&#x;&;&amp",
		"'''''a'''b''",
		strings.Repeat("{{", 50) + strings.Repeat("}}", 49),
		"Текст '''жирный''' [[Ссылка|подпись]] {{СС3|18.1.1918}}",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			var walk func(nodes []Node)
			walk = func(nodes []Node) {
				for _, n := range nodes {
					start, end := n.Span()
					require.True(t, 0 <= start && start <= end && end <= len(src),
						"node %T has span [%d,%d) outside input of length %d", n, start, end, len(src))
					switch n := n.(type) {
					case Link:
						walk(n.Nodes)
					case ExternalLink:
						walk(n.Nodes)
					case Heading:
						walk(n.Nodes)
					case Preformatted:
						walk(n.Nodes)
					case Tag:
						walk(n.Nodes)
					case UnorderedList:
						walkItems(t, n.Items, walk)
					case OrderedList:
						walkItems(t, n.Items, walk)
					case DefinitionList:
						walkItems(t, n.Items, walk)
					}
				}
			}
			walk(parse(src))
		})
	}
}

func walkItems(t *testing.T, items []ListItem, walk func([]Node)) {
	t.Helper()
	for _, it := range items {
		walk(it.Nodes)
	}
}
