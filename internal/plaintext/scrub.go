// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import (
	"regexp"
	"strings"
)

// maxTemplateRounds bounds the innermost-template stripping loop.
const maxTemplateRounds = 10

// Every pattern below caps its repetition so an adversarial document cannot
// make a single match scan unboundedly far.
var (
	innerTemplateRe   = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	boundedTemplateRe = regexp.MustCompile(`\{\{[^}]{0,500}\}\}`)
	braceRe           = regexp.MustCompile(`[{}]`)
	mediaEmbedRe      = regexp.MustCompile(`\[\[(?:Файл|File):[^\]]{0,500}\]\]`)
	imageParamsRe     = regexp.MustCompile(`^\d+px\|(?:мини|thumb|миниатюра|left|right|center|слева|справа|центр)\|.{0,200}$`)
	newlineRunRe      = regexp.MustCompile(`\n{3,}`)
)

// imageFragmentRes match caption leftovers: size with thumb and position,
// alt text, and a bare size with thumb.
var imageFragmentRes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*\d+px\|мини\|(?:слева|справа|центр)?.{0,200}$`),
	regexp.MustCompile(`(?m)^\s*альт=.{0,100}\|мини\|.{0,200}$`),
	regexp.MustCompile(`(?m)^\s*\d+px\|мини$`),
}

// Scrub removes template and image residue from extracted text and
// normalises blank lines.
func Scrub(text string) string {
	text = StripTemplates(text)
	text = boundedTemplateRe.ReplaceAllString(text, "")
	text = braceRe.ReplaceAllString(text, "")
	text = RemoveImageFragments(text)
	return CollapseNewlines(text)
}

// StripTemplates removes innermost {{...}} spans, working outwards for at
// most maxTemplateRounds rounds or until a round changes nothing.
func StripTemplates(text string) string {
	prev := len(text)
	for range maxTemplateRounds {
		text = innerTemplateRe.ReplaceAllString(text, "")
		if len(text) == prev {
			break
		}
		prev = len(text)
	}
	return text
}

// RemoveImageFragments drops media embeds and the caption/size fragments
// that leak out of them.
func RemoveImageFragments(text string) string {
	text = mediaEmbedRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if imageParamsRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	for _, re := range imageFragmentRes {
		text = re.ReplaceAllString(text, "")
	}
	return CollapseNewlines(text)
}

// CollapseNewlines reduces every run of three or more newlines to two.
func CollapseNewlines(text string) string {
	return newlineRunRe.ReplaceAllString(text, paragraphSep)
}

// SplitParagraphs splits on blank-line separators and drops empty paragraphs.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, paragraphSep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
