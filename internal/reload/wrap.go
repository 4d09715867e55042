package reload

import (
	"strings"

	"github.com/dshills/monolcd/internal/framebuffer"
)

// wrap splits s into rows no wider than width pixels in the active font,
// breaking between words where possible and inside a word otherwise.
// Newlines always break.
func wrap(fb *framebuffer.Framebuffer, s string, width int) []string {
	var rows []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			rows = append(rows, "")
			continue
		}

		cur := ""
		for _, word := range words {
			candidate := word
			if cur != "" {
				candidate = cur + " " + word
			}
			if fb.StrWidth(candidate) <= width {
				cur = candidate
				continue
			}
			if cur != "" {
				rows = append(rows, cur)
			}
			cur = word
			for fb.StrWidth(cur) > width {
				head, tail := splitAt(fb, cur, width)
				if tail == "" {
					break
				}
				rows = append(rows, head)
				cur = tail
			}
		}
		rows = append(rows, cur)
	}
	return rows
}

// splitAt returns the longest prefix of s that fits in width, keeping at
// least one rune, and the remainder.
func splitAt(fb *framebuffer.Framebuffer, s string, width int) (string, string) {
	r := []rune(s)
	k := 1
	for k < len(r) && fb.StrWidth(string(r[:k+1])) <= width {
		k++
	}
	return string(r[:k]), string(r[k:])
}
