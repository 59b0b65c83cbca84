// Package editor holds the structured training-content editor: the document
// state controller, the list/checklist editing engine and the drag-reorder layer.
//
// A Controller is the single owner of a document. Every command computes a new
// immutable Document, commits it, and reports a domain.Result. Controllers are
// not safe for concurrent use; callers serialize access (see service.Session).
package editor

import (
	"trainings/internal/domain"
)

// Controller owns the section list of one document.
type Controller struct {
	doc      *domain.Document
	activeID string

	// revisions maps block id to the clock value of its last change.
	// Blocks never changed since creation or hydration are absent (revision 0)
	// unless the hydration stamped them.
	revisions map[string]uint64
	clock     uint64
}

// New returns a controller over the bootstrap document.
func New() *Controller {
	c := &Controller{}
	c.reset(domain.NewDocument())
	return c
}

// Hydrate returns a controller adopting a previously saved document.
func Hydrate(doc *domain.Document) (*Controller, error) {
	c := &Controller{}
	if err := c.Hydrate(doc); err != nil {
		return nil, err
	}
	return c, nil
}

// Hydrate replaces the whole document. Every block revision advances, so
// asynchronous results computed against the previous document are dropped.
func (c *Controller) Hydrate(doc *domain.Document) error {
	norm, err := domain.Normalize(doc)
	if err != nil {
		return err
	}
	c.reset(norm)
	return nil
}

func (c *Controller) reset(doc *domain.Document) {
	c.doc = doc
	c.activeID = doc.Sections[0].ID
	c.clock++
	c.revisions = make(map[string]uint64, doc.BlockCount())
	for _, s := range doc.Sections {
		for _, b := range s.Blocks {
			c.revisions[b.ID] = c.clock
		}
	}
}

// Document returns the current document. The value is immutable.
func (c *Controller) Document() *domain.Document {
	return c.doc
}

// ActiveSection returns the index of the active section.
func (c *Controller) ActiveSection() int {
	if i := c.doc.SectionIndex(c.activeID); i >= 0 {
		return i
	}
	return 0
}

// SetActiveSection moves the active pointer.
func (c *Controller) SetActiveSection(index int) domain.Result {
	if !inRange(index, len(c.doc.Sections)) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	id := c.doc.Sections[index].ID
	if id == c.activeID {
		return domain.Unchanged()
	}
	c.activeID = id
	return domain.Applied()
}

// Revision returns the sequencing token of a block. Asynchronous work reads it
// before starting and hands it back to UpdateBlockAt.
func (c *Controller) Revision(blockID string) (uint64, bool) {
	if _, _, ok := c.doc.FindBlock(blockID); !ok {
		return 0, false
	}
	return c.revisions[blockID], true
}

// Block returns a block of a section by id.
func (c *Controller) Block(sectionIndex int, blockID string) (*domain.Block, bool) {
	if !inRange(sectionIndex, len(c.doc.Sections)) {
		return nil, false
	}
	sec := c.doc.Sections[sectionIndex]
	bi := sec.BlockIndex(blockID)
	if bi < 0 {
		return nil, false
	}
	return sec.Blocks[bi], true
}

func (c *Controller) commitSections(sections []*domain.Section) {
	c.doc = &domain.Document{Sections: sections}
}

func (c *Controller) commitSection(index int, sec *domain.Section) {
	c.commitSections(replaceAt(c.doc.Sections, index, sec))
}

func (c *Controller) touch(blockID string) {
	c.clock++
	c.revisions[blockID] = c.clock
}

func (c *Controller) forget(sec *domain.Section) {
	for _, b := range sec.Blocks {
		delete(c.revisions, b.ID)
	}
}

// ── Sections ───────────────────────────────────────────────

// AddSection appends a section holding one empty text block and activates it.
func (c *Controller) AddSection() (string, domain.Result) {
	return c.InsertSection(len(c.doc.Sections) - 1)
}

// InsertSection inserts a new section right after index after; -1 inserts it first.
func (c *Controller) InsertSection(after int) (string, domain.Result) {
	n := len(c.doc.Sections)
	if after < -1 || after >= n {
		return "", domain.Rejected(domain.ReasonOutOfRange)
	}
	sec := domain.NewSection(domain.DefaultSectionTitle(n))
	c.commitSections(insertAt(c.doc.Sections, after+1, sec))
	c.activeID = sec.ID
	return sec.ID, domain.Applied()
}

// DeleteSection removes a section. The last remaining section cannot be deleted.
func (c *Controller) DeleteSection(index int) domain.Result {
	n := len(c.doc.Sections)
	if !inRange(index, n) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	if n == 1 {
		return domain.Rejected(domain.ReasonLastSection)
	}
	removed := c.doc.Sections[index]
	c.commitSections(removeAt(c.doc.Sections, index))
	c.forget(removed)
	if removed.ID == c.activeID {
		next := index
		if next >= n-1 {
			next = n - 2
		}
		c.activeID = c.doc.Sections[next].ID
	}
	return domain.Applied()
}

// DuplicateSection deep-copies a section with fresh ids right after the source and activates the copy.
func (c *Controller) DuplicateSection(index int) (string, domain.Result) {
	if !inRange(index, len(c.doc.Sections)) {
		return "", domain.Rejected(domain.ReasonOutOfRange)
	}
	dup := c.doc.Sections[index].Duplicate()
	c.commitSections(insertAt(c.doc.Sections, index+1, dup))
	c.activeID = dup.ID
	return dup.ID, domain.Applied()
}

// RenameSection sets a section title.
func (c *Controller) RenameSection(index int, title string) domain.Result {
	if !inRange(index, len(c.doc.Sections)) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	sec := c.doc.Sections[index]
	if sec.Title == title {
		return domain.Unchanged()
	}
	next := sec.WithBlocks(sec.Blocks)
	next.Title = title
	c.commitSection(index, next)
	return domain.Applied()
}

// MoveSection reorders the section list.
func (c *Controller) MoveSection(from, to int) domain.Result {
	n := len(c.doc.Sections)
	if !inRange(from, n) || !inRange(to, n) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	if from == to {
		return domain.Unchanged()
	}
	c.commitSections(moveItem(c.doc.Sections, from, to))
	return domain.Applied()
}

// ── Blocks ─────────────────────────────────────────────────

// AddBlock appends a default-valued block of type t to a section.
func (c *Controller) AddBlock(sectionIndex int, t domain.BlockType) (string, domain.Result) {
	if !inRange(sectionIndex, len(c.doc.Sections)) {
		return "", domain.Rejected(domain.ReasonOutOfRange)
	}
	return c.InsertBlock(sectionIndex, t, len(c.doc.Sections[sectionIndex].Blocks)-1)
}

// InsertBlock inserts a default-valued block right after block index after; -1 inserts at the start.
func (c *Controller) InsertBlock(sectionIndex int, t domain.BlockType, after int) (string, domain.Result) {
	if !t.Valid() {
		return "", domain.Rejected(domain.ReasonUnknownType)
	}
	if !inRange(sectionIndex, len(c.doc.Sections)) {
		return "", domain.Rejected(domain.ReasonOutOfRange)
	}
	sec := c.doc.Sections[sectionIndex]
	if after < -1 || after >= len(sec.Blocks) {
		return "", domain.Rejected(domain.ReasonOutOfRange)
	}
	b := domain.NewBlock(t)
	c.commitSection(sectionIndex, sec.WithBlocks(insertAt(sec.Blocks, after+1, b)))
	return b.ID, domain.Applied()
}

// UpdateBlock shallow-merges patch into the block with the given id.
func (c *Controller) UpdateBlock(sectionIndex int, blockID string, patch domain.BlockPatch) domain.Result {
	return c.updateBlock(sectionIndex, blockID, patch, nil)
}

// UpdateBlockAt is UpdateBlock guarded by a revision read earlier with Revision.
// It is rejected when the block changed in the meantime.
func (c *Controller) UpdateBlockAt(sectionIndex int, blockID string, patch domain.BlockPatch, revision uint64) domain.Result {
	return c.updateBlock(sectionIndex, blockID, patch, &revision)
}

func (c *Controller) updateBlock(sectionIndex int, blockID string, patch domain.BlockPatch, revision *uint64) domain.Result {
	if !inRange(sectionIndex, len(c.doc.Sections)) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	sec := c.doc.Sections[sectionIndex]
	bi := sec.BlockIndex(blockID)
	if bi < 0 {
		return domain.Rejected(domain.ReasonUnknownBlock)
	}
	if revision != nil && c.revisions[blockID] != *revision {
		return domain.Rejected(domain.ReasonStaleRevision)
	}
	cur := sec.Blocks[bi]
	next, reason := patch.Apply(cur)
	if reason != "" {
		return domain.Rejected(reason)
	}
	if next == cur {
		return domain.Unchanged()
	}
	c.replaceBlock(sectionIndex, bi, next)
	return domain.Applied()
}

func (c *Controller) replaceBlock(sectionIndex, blockIndex int, b *domain.Block) {
	sec := c.doc.Sections[sectionIndex]
	c.commitSection(sectionIndex, sec.WithBlocks(replaceAt(sec.Blocks, blockIndex, b)))
	c.touch(b.ID)
}

// DeleteBlock removes a block. Deleting the only block of a section leaves
// one fresh empty text block in its place.
func (c *Controller) DeleteBlock(sectionIndex int, blockID string) domain.Result {
	if !inRange(sectionIndex, len(c.doc.Sections)) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	sec := c.doc.Sections[sectionIndex]
	bi := sec.BlockIndex(blockID)
	if bi < 0 {
		return domain.Rejected(domain.ReasonUnknownBlock)
	}
	delete(c.revisions, blockID)
	if len(sec.Blocks) == 1 {
		c.commitSection(sectionIndex, sec.WithBlocks([]*domain.Block{domain.NewBlock(domain.BlockTypeText)}))
		return domain.Result{Status: domain.StatusApplied, Reason: domain.ReasonReplacedLastBlock}
	}
	c.commitSection(sectionIndex, sec.WithBlocks(removeAt(sec.Blocks, bi)))
	return domain.Applied()
}

// MoveBlock reorders blocks inside one section.
func (c *Controller) MoveBlock(sectionIndex, from, to int) domain.Result {
	if !inRange(sectionIndex, len(c.doc.Sections)) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	sec := c.doc.Sections[sectionIndex]
	n := len(sec.Blocks)
	if !inRange(from, n) || !inRange(to, n) {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	if from == to {
		return domain.Unchanged()
	}
	c.commitSection(sectionIndex, sec.WithBlocks(moveItem(sec.Blocks, from, to)))
	return domain.Applied()
}
