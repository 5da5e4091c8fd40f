package core

import (
	"slices"
	"strings"

	"github.com/linefs/linefs/api"
)

// LineContent is the ordered-line representation of a file body. Values are
// immutable: every mutating operation returns a fresh value, so a record swap
// can never expose a half-applied edit. Lines never include the newline
// separator; an empty file has zero lines and renders as empty text.
type LineContent struct {
	lines []string
	size  int64 // byte size of Text()
}

var emptyContent = &LineContent{}

// newLineContent splits text on newline into lines. Empty text yields the
// zero-line content.
func newLineContent(text string) *LineContent {
	if text == "" {
		return emptyContent
	}
	return contentOf(strings.Split(text, "\n"))
}

func contentOf(lines []string) *LineContent {
	if len(lines) == 0 {
		return emptyContent
	}
	var size int64
	for _, l := range lines {
		size += int64(len(l))
	}
	size += int64(len(lines) - 1) // newline separators
	return &LineContent{lines: lines, size: size}
}

// Len returns the line count.
func (c *LineContent) Len() int { return len(c.lines) }

// Size returns the byte size of the joined text.
func (c *LineContent) Size() int64 { return c.size }

// Lines returns the underlying line slice. Callers must not modify it.
func (c *LineContent) Lines() []string { return c.lines }

// Text reconstructs the file body by joining lines with newline.
func (c *LineContent) Text() string { return strings.Join(c.lines, "\n") }

// Range returns the text of the 1-indexed inclusive line range [start, end].
// end == -1 means through end of file. A start beyond the line count yields
// empty text, consistent with "no matching range".
func (c *LineContent) Range(start, end int) (string, error) {
	if start < 1 {
		return "", api.Errf(api.KindInvalidRange, "", "start must be >= 1, got %d", start)
	}
	if end != -1 && end < start {
		return "", api.Errf(api.KindInvalidRange, "", "end %d precedes start %d", end, start)
	}
	if start > len(c.lines) {
		return "", nil
	}
	hi := len(c.lines)
	if end != -1 && end < hi {
		hi = end
	}
	return strings.Join(c.lines[start-1:hi], "\n"), nil
}

// InsertAfter returns a copy with text inserted after the given 1-indexed
// line: 0 prepends before the first line, -1 appends after the last.
// Multi-line text inserts as one contiguous block. A positive line greater
// than the current line count + 1 is out of range.
func (c *LineContent) InsertAfter(line int, text string) (*LineContent, error) {
	switch {
	case line == -1:
		line = len(c.lines)
	case line >= 0:
		if line > len(c.lines)+1 {
			return nil, api.Errf(api.KindInvalidRange, "", "line %d beyond line count %d", line, len(c.lines))
		}
		line = min(line, len(c.lines))
	default:
		return nil, api.Errf(api.KindInvalidRange, "", "invalid line %d", line)
	}

	block := strings.Split(text, "\n")
	out := make([]string, 0, len(c.lines)+len(block))
	out = append(out, c.lines[:line]...)
	out = append(out, block...)
	out = append(out, c.lines[line:]...)
	return contentOf(out), nil
}

// DeleteRange returns a copy with the 1-indexed inclusive range [start, end]
// removed, plus the count of lines removed. end past the last line clamps to
// it; a start beyond the line count is out of range.
func (c *LineContent) DeleteRange(start, end int) (*LineContent, int, error) {
	if start < 1 {
		return nil, 0, api.Errf(api.KindInvalidRange, "", "start must be >= 1, got %d", start)
	}
	if end < start {
		return nil, 0, api.Errf(api.KindInvalidRange, "", "end %d precedes start %d", end, start)
	}
	if start > len(c.lines) {
		return nil, 0, api.Errf(api.KindInvalidRange, "", "start %d beyond line count %d", start, len(c.lines))
	}
	hi := min(end, len(c.lines))

	out := make([]string, 0, len(c.lines)-(hi-start+1))
	out = append(out, c.lines[:start-1]...)
	out = append(out, c.lines[hi:]...)
	return contentOf(out), hi - start + 1, nil
}

// Append returns a copy with text split on newline and appended as new lines.
func (c *LineContent) Append(text string) *LineContent {
	block := strings.Split(text, "\n")
	out := make([]string, 0, len(c.lines)+len(block))
	out = append(out, c.lines...)
	out = append(out, block...)
	return contentOf(out)
}

// Replace substitutes literal occurrences of old with new within the
// 1-indexed inclusive window [lineStart, lineEnd] (0 defaults to start/end of
// file). When all is false only the first occurrence in document order is
// replaced. Returns the new content and the replacement count; zero
// replacements return the receiver unchanged.
func (c *LineContent) Replace(old, new string, opts api.ReplaceOptions) (*LineContent, int) {
	if old == "" || len(c.lines) == 0 {
		return c, 0
	}

	lo := 1
	if opts.LineStart > 0 {
		lo = opts.LineStart
	}
	hi := len(c.lines)
	if opts.LineEnd > 0 && opts.LineEnd < hi {
		hi = opts.LineEnd
	}
	if lo > hi {
		return c, 0
	}

	count := 0
	out := slices.Clone(c.lines)
	for i := lo - 1; i < hi; i++ {
		if !strings.Contains(out[i], old) {
			continue
		}
		if opts.All {
			count += strings.Count(out[i], old)
			out[i] = strings.ReplaceAll(out[i], old, new)
			continue
		}
		out[i] = strings.Replace(out[i], old, new, 1)
		count = 1
		break
	}

	if count == 0 {
		return c, 0
	}
	if strings.Contains(new, "\n") {
		// The substituted text embeds separators; re-split so line records
		// stay newline-free and line addressing keeps matching Text().
		out = strings.Split(strings.Join(out, "\n"), "\n")
	}
	return contentOf(out), count
}
