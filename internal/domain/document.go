package domain

import (
	"encoding/json"
	"fmt"
)

// Document is the full ordered collection of sections of one training.
// A Document value is never modified once built; editing produces a new
// Document sharing every untouched section and block.
type Document struct {
	Sections []*Section `json:"sections"`
}

// NewDocument returns the bootstrap document: one section with one empty text block.
func NewDocument() *Document {
	return &Document{Sections: []*Section{NewSection(BootstrapSectionTitle)}}
}

// SectionIndex returns the position of the section with the given id, or -1.
func (d *Document) SectionIndex(sectionID string) int {
	for i, s := range d.Sections {
		if s.ID == sectionID {
			return i
		}
	}
	return -1
}

// FindBlock locates a block anywhere in the document.
func (d *Document) FindBlock(blockID string) (sectionIndex, blockIndex int, ok bool) {
	for si, s := range d.Sections {
		if bi := s.BlockIndex(blockID); bi >= 0 {
			return si, bi, true
		}
	}
	return -1, -1, false
}

// BlockCount returns the number of blocks over all sections.
func (d *Document) BlockCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Blocks)
	}
	return n
}

// Normalize rebuilds a previously saved payload into a document that holds
// every structural invariant. It never modifies d.
func Normalize(d *Document) (*Document, error) {
	if d == nil || len(d.Sections) == 0 {
		return NewDocument(), nil
	}
	seen := make(map[string]bool)
	out := &Document{Sections: make([]*Section, 0, len(d.Sections))}
	for i, s := range d.Sections {
		if s == nil {
			continue
		}
		sec := &Section{ID: s.ID, Title: s.Title}
		if sec.ID == "" || seen[sec.ID] {
			sec.ID = NewID()
		}
		seen[sec.ID] = true
		if sec.Title == "" {
			sec.Title = DefaultSectionTitle(i)
		}
		for _, b := range s.Blocks {
			if b == nil {
				continue
			}
			if !b.Type.Valid() {
				return nil, fmt.Errorf("section %q: unknown block type %q", sec.Title, b.Type)
			}
			nb := b.Clone()
			if seen[nb.ID] {
				nb.ID = ""
			}
			nb.normalize()
			seen[nb.ID] = true
			sec.Blocks = append(sec.Blocks, nb)
		}
		if len(sec.Blocks) == 0 {
			sec.Blocks = []*Block{NewBlock(BlockTypeText)}
		}
		out.Sections = append(out.Sections, sec)
	}
	if len(out.Sections) == 0 {
		return NewDocument(), nil
	}
	return out, nil
}

// Marshal serializes the document into its persisted JSON payload.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// ParseDocument decodes a persisted payload and normalizes it.
func ParseDocument(data []byte) (*Document, error) {
	if len(data) == 0 {
		return NewDocument(), nil
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return Normalize(&d)
}
