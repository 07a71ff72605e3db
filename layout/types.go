package layout

// 该文件定义分页结果，供渲染层与调试输出共用。坐标为页面像素坐标，y 轴向下。

// Result 保存同一样式快照下排好的章节。
type Result struct {
	Viewport Viewport       `json:"viewport" yaml:"viewport"`
	Style    StyleConfig    `json:"style" yaml:"style"`
	Chapters []*TextChapter `json:"chapters" yaml:"chapters"`
}

// ChapterMeta 是章节的元信息，原样复制到每一页。
type ChapterMeta struct {
	Index    int    `json:"index" yaml:"index"`
	Title    string `json:"title" yaml:"title"`
	SourceID string `json:"sourceId" yaml:"sourceId"`
	// Size 为全书章节总数。
	Size int `json:"size" yaml:"size"`
}

// Point 是页面坐标中的一个点。
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// TextChar 是一个字形单元（一个字素簇）及其包围盒。
// LeftBottom.Y 为所在行的基线，RightTop.Y 为行顶，因此 RightTop.Y < LeftBottom.Y。
type TextChar struct {
	Char       string `json:"char" yaml:"char"`
	LeftBottom Point  `json:"leftBottom" yaml:"leftBottom"`
	RightTop   Point  `json:"rightTop" yaml:"rightTop"`
}

// TextLine 表示排好的一行。段落末行的 Text 以换行符结尾。
type TextLine struct {
	Text    string     `json:"text" yaml:"text"`
	Chars   []TextChar `json:"chars" yaml:"chars"`
	IsTitle bool       `json:"isTitle" yaml:"isTitle"`
	Top     float64    `json:"lineTop" yaml:"lineTop"`
	Bottom  float64    `json:"lineBottom" yaml:"lineBottom"`
}

// CharCount 返回行内字形数。
func (l TextLine) CharCount() int { return len(l.Chars) }

// TextPage 表示一页。
type TextPage struct {
	Index        int        `json:"index" yaml:"index"`
	Text         string     `json:"text" yaml:"text"`
	Lines        []TextLine `json:"lines" yaml:"lines"`
	PageSize     int        `json:"pageSize" yaml:"pageSize"`
	ChapterIndex int        `json:"chapterIndex" yaml:"chapterIndex"`
	ChapterSize  int        `json:"chapterSize" yaml:"chapterSize"`
	Title        string     `json:"title" yaml:"title"`
}

// LineCount 返回页内行数。
func (p TextPage) LineCount() int { return len(p.Lines) }

// TextChapter 是一章的分页结果。PageLines/PageLengths 与 Pages 一一对应。
type TextChapter struct {
	Index       int        `json:"index" yaml:"index"`
	Title       string     `json:"title" yaml:"title"`
	SourceID    string     `json:"sourceId" yaml:"sourceId"`
	Pages       []TextPage `json:"pages" yaml:"pages"`
	PageLines   []int      `json:"pageLines" yaml:"pageLines"`
	PageLengths []int      `json:"pageLengths" yaml:"pageLengths"`
	ChapterSize int        `json:"chapterSize" yaml:"chapterSize"`
}
