package layout

// PageSize 返回页数。
func (c *TextChapter) PageSize() int {
	if c == nil {
		return 0
	}
	return len(c.Pages)
}

// Page returns the page at index i.
func (c *TextChapter) Page(i int) (*TextPage, bool) {
	if c == nil || i < 0 || i >= len(c.Pages) {
		return nil, false
	}
	return &c.Pages[i], true
}

// LineCount 返回整章的行数。
func (c *TextChapter) LineCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.PageLines {
		n += l
	}
	return n
}

// ReadLength 返回 pageIndex 之前所有页的字符数（按 rune 计），即该页首字符在章节文本中的偏移。
func (c *TextChapter) ReadLength(pageIndex int) int {
	if c == nil || pageIndex <= 0 {
		return 0
	}
	if pageIndex > len(c.PageLengths) {
		pageIndex = len(c.PageLengths)
	}
	n := 0
	for _, l := range c.PageLengths[:pageIndex] {
		n += l
	}
	return n
}

// PageIndexAt 返回包含章节文本偏移 charIndex（按 rune 计）的页序号；越界时返回末页。
// 用于根据保存的阅读位置恢复页码。
func (c *TextChapter) PageIndexAt(charIndex int) int {
	if c == nil || len(c.PageLengths) == 0 {
		return 0
	}
	n := 0
	for i, l := range c.PageLengths {
		n += l
		if charIndex < n {
			return i
		}
	}
	return len(c.PageLengths) - 1
}
