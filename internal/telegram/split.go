package telegram

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMessageLen is Telegram's limit for a single text message.
const MaxMessageLen = 4096

var preOpen = regexp.MustCompile(`^<pre>(<code class="[^"]*">)?`)

// SplitMessages packs rendered sections into as few messages as possible,
// each at most limit runes. Sections are joined with a blank line. A
// section that does not fit on its own is split on line boundaries; a
// preformatted section keeps its <pre> wrapper on every piece.
func SplitMessages(sections []string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLen
	}
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	add := func(piece string) {
		if piece == "" {
			return
		}
		if cur.Len() > 0 && runeLen(cur.String())+2+runeLen(piece) > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(piece)
	}

	for _, s := range sections {
		if runeLen(s) <= limit {
			add(s)
			continue
		}
		flush()
		for _, piece := range splitSection(s, limit) {
			add(piece)
			flush()
		}
	}
	flush()
	return out
}

func splitSection(s string, limit int) []string {
	open := preOpen.FindString(s)
	if open == "" {
		return splitLines(s, limit)
	}
	closing := "</pre>"
	if strings.Contains(open, "<code") {
		closing = "</code></pre>"
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, open), closing)

	budget := limit - runeLen(open) - runeLen(closing)
	var out []string
	for _, chunk := range splitLines(inner, budget) {
		out = append(out, open+chunk+closing)
	}
	return out
}

// splitLines cuts s into chunks of at most limit runes, preferring line
// breaks. Lines longer than limit are cut without splitting an HTML entity.
func splitLines(s string, limit int) []string {
	if limit < 16 {
		limit = 16
	}
	var (
		out []string
		cur []string
		n   int
	)
	for _, line := range strings.Split(s, "\n") {
		for runeLen(line) > limit {
			if len(cur) > 0 {
				out = append(out, strings.Join(cur, "\n"))
				cur, n = nil, 0
			}
			head, rest := cutRunes(line, limit)
			out = append(out, head)
			line = rest
		}
		l := runeLen(line)
		if len(cur) > 0 && n+1+l > limit {
			out = append(out, strings.Join(cur, "\n"))
			cur, n = nil, 0
		}
		if len(cur) > 0 {
			n++
		}
		cur = append(cur, line)
		n += l
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, "\n"))
	}
	return out
}

// cutRunes returns the first limit runes of s and the remainder, moving the
// cut back before an entity such as "&amp;" if it would land inside one.
func cutRunes(s string, limit int) (string, string) {
	i, count := 0, 0
	for i < len(s) && count < limit {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	head := s[:i]
	if amp := strings.LastIndexByte(head, '&'); amp > 0 && !strings.Contains(head[amp:], ";") {
		if semi := strings.IndexByte(s[amp:], ';'); semi > 0 && semi <= 8 {
			i = amp
		}
	}
	return s[:i], s[i:]
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
