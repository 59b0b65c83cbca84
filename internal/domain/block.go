package domain

type BlockType string

const (
	BlockTypeText      BlockType = "text"
	BlockTypeHeading   BlockType = "heading"
	BlockTypeImage     BlockType = "image"
	BlockTypeVideo     BlockType = "video"
	BlockTypeDivider   BlockType = "divider"
	BlockTypeQuote     BlockType = "quote"
	BlockTypeList      BlockType = "list"
	BlockTypeChecklist BlockType = "checklist"
)

// BlockTypes lists every supported block type in toolbar order.
var BlockTypes = []BlockType{
	BlockTypeText,
	BlockTypeHeading,
	BlockTypeImage,
	BlockTypeVideo,
	BlockTypeQuote,
	BlockTypeList,
	BlockTypeChecklist,
	BlockTypeDivider,
}

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	for _, known := range BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasText reports whether blocks of this type carry Content and Align.
func (t BlockType) HasText() bool {
	return t == BlockTypeText || t == BlockTypeHeading || t == BlockTypeQuote
}

// HasMedia reports whether blocks of this type carry MediaURL and Caption.
func (t BlockType) HasMedia() bool {
	return t == BlockTypeImage || t == BlockTypeVideo
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

func (a Align) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// DefaultHeadingLevel is the level given to freshly created heading blocks.
const DefaultHeadingLevel = 2

// CheckItem is one entry of a checklist block.
type CheckItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Block is one typed unit of content inside a section.
// Blocks reachable from a Document are shared between document versions
// and must be treated as read-only; use Clone before changing one.
type Block struct {
	ID         string      `json:"id"`
	Type       BlockType   `json:"type"`
	Content    string      `json:"content,omitempty"`
	Level      int         `json:"level,omitempty"` // heading only: 1..3
	Align      Align       `json:"align,omitempty"`
	MediaURL   string      `json:"mediaUrl,omitempty"` // empty means no media set
	Caption    string      `json:"caption,omitempty"`
	ListItems  []string    `json:"listItems,omitempty"`
	CheckItems []CheckItem `json:"checkItems,omitempty"`
}

// NewBlock builds a default-valued block of the given type with a fresh id.
func NewBlock(t BlockType) *Block {
	b := &Block{ID: NewID(), Type: t}
	switch t {
	case BlockTypeText, BlockTypeQuote:
		b.Align = AlignLeft
	case BlockTypeHeading:
		b.Align = AlignLeft
		b.Level = DefaultHeadingLevel
	case BlockTypeList:
		b.ListItems = []string{""}
	case BlockTypeChecklist:
		b.CheckItems = []CheckItem{{}}
	}
	return b
}

// Clone returns a deep copy of b that keeps its id.
func (b *Block) Clone() *Block {
	c := *b
	if b.ListItems != nil {
		c.ListItems = append([]string(nil), b.ListItems...)
	}
	if b.CheckItems != nil {
		c.CheckItems = append([]CheckItem(nil), b.CheckItems...)
	}
	return &c
}

// CloneWithNewID returns a deep copy of b carrying a fresh id.
func (b *Block) CloneWithNewID() *Block {
	c := b.Clone()
	c.ID = NewID()
	return c
}

// normalize fills defaults that a hydrated payload may be missing.
func (b *Block) normalize() {
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.Type.HasText() && !b.Align.Valid() {
		b.Align = AlignLeft
	}
	switch b.Type {
	case BlockTypeHeading:
		if b.Level < 1 || b.Level > 3 {
			b.Level = DefaultHeadingLevel
		}
	case BlockTypeList:
		if len(b.ListItems) == 0 {
			b.ListItems = []string{""}
		}
	case BlockTypeChecklist:
		if len(b.CheckItems) == 0 {
			b.CheckItems = []CheckItem{{}}
		}
	}
}
