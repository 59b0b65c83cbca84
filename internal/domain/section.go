package domain

import "fmt"

// BootstrapSectionTitle names the single section of a brand-new document.
const BootstrapSectionTitle = "Introdução"

// DefaultSectionTitle is the title given to the section created at position n (0-based).
func DefaultSectionTitle(n int) string {
	return fmt.Sprintf("Nova Seção %d", n+1)
}

// DuplicateTitle is the title given to a copy of a section.
func DuplicateTitle(title string) string {
	return title + " (cópia)"
}

// Section is an ordered, named container of blocks.
// Like Block it is shared between document versions and is read-only.
type Section struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Blocks []*Block `json:"blocks"`
}

// NewSection returns a section holding one empty text block.
func NewSection(title string) *Section {
	return &Section{
		ID:     NewID(),
		Title:  title,
		Blocks: []*Block{NewBlock(BlockTypeText)},
	}
}

// BlockIndex returns the position of the block with the given id, or -1.
func (s *Section) BlockIndex(blockID string) int {
	for i, b := range s.Blocks {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

// WithBlocks returns a shallow copy of s holding blocks.
func (s *Section) WithBlocks(blocks []*Block) *Section {
	return &Section{ID: s.ID, Title: s.Title, Blocks: blocks}
}

// Duplicate deep-copies s and every block, assigning fresh ids throughout.
func (s *Section) Duplicate() *Section {
	blocks := make([]*Block, len(s.Blocks))
	for i, b := range s.Blocks {
		blocks[i] = b.CloneWithNewID()
	}
	return &Section{ID: NewID(), Title: DuplicateTitle(s.Title), Blocks: blocks}
}
