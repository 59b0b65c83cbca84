package editor

import "trainings/internal/domain"

// ItemTraits describes the item type of a list-like block.
type ItemTraits[T any] interface {
	IsEmpty(item T) bool
	Empty() T
}

// TextItems are the plain string items of a list block.
type TextItems struct{}

func (TextItems) IsEmpty(item string) bool { return item == "" }
func (TextItems) Empty() string            { return "" }

// CheckItems are the items of a checklist block. A new item starts unchecked.
type CheckItems struct{}

func (CheckItems) IsEmpty(item domain.CheckItem) bool { return item.Text == "" }
func (CheckItems) Empty() domain.CheckItem            { return domain.CheckItem{} }

// SplitItem inserts an empty item right after index i and returns the new
// items with the index that should receive focus.
func SplitItem[T any](items []T, i int, traits ItemTraits[T]) ([]T, int, domain.Result) {
	if !inRange(i, len(items)) {
		return items, i, domain.Rejected(domain.ReasonOutOfRange)
	}
	return insertAt(items, i+1, traits.Empty()), i + 1, domain.Applied()
}

// MergeEmptyItem removes the empty item at index i, keeping at least one item.
// Focus goes back to the previous item.
func MergeEmptyItem[T any](items []T, i int, traits ItemTraits[T]) ([]T, int, domain.Result) {
	if !inRange(i, len(items)) {
		return items, i, domain.Rejected(domain.ReasonOutOfRange)
	}
	if !traits.IsEmpty(items[i]) {
		return items, i, domain.Rejected(domain.ReasonItemNotEmpty)
	}
	if len(items) == 1 {
		return items, i, domain.Rejected(domain.ReasonMinItems)
	}
	focus := i - 1
	if focus < 0 {
		focus = 0
	}
	return removeAt(items, i), focus, domain.Applied()
}

type itemEdit func(b *domain.Block) (domain.BlockPatch, int, domain.Result)

// editItems runs edit against a list or checklist block and commits the patch it yields.
func (c *Controller) editItems(sectionIndex int, blockID string, edit itemEdit) (int, domain.Result) {
	b, ok := c.Block(sectionIndex, blockID)
	if !ok {
		if !inRange(sectionIndex, len(c.doc.Sections)) {
			return -1, domain.Rejected(domain.ReasonOutOfRange)
		}
		return -1, domain.Rejected(domain.ReasonUnknownBlock)
	}
	if b.Type != domain.BlockTypeList && b.Type != domain.BlockTypeChecklist {
		return -1, domain.Rejected(domain.ReasonNotListBlock)
	}
	patch, focus, res := edit(b)
	if !res.Changed() {
		return focus, res
	}
	return focus, c.UpdateBlock(sectionIndex, blockID, patch)
}

// SplitItem handles a confirm keystroke on item i of a list or checklist block.
func (c *Controller) SplitItem(sectionIndex int, blockID string, i int) (int, domain.Result) {
	return c.editItems(sectionIndex, blockID, func(b *domain.Block) (domain.BlockPatch, int, domain.Result) {
		if b.Type == domain.BlockTypeList {
			items, focus, res := SplitItem(b.ListItems, i, TextItems{})
			return domain.BlockPatch{ListItems: items}, focus, res
		}
		items, focus, res := SplitItem(b.CheckItems, i, CheckItems{})
		return domain.BlockPatch{CheckItems: items}, focus, res
	})
}

// MergeItem handles a delete keystroke on the empty item i of a list or checklist block.
func (c *Controller) MergeItem(sectionIndex int, blockID string, i int) (int, domain.Result) {
	return c.editItems(sectionIndex, blockID, func(b *domain.Block) (domain.BlockPatch, int, domain.Result) {
		if b.Type == domain.BlockTypeList {
			items, focus, res := MergeEmptyItem(b.ListItems, i, TextItems{})
			return domain.BlockPatch{ListItems: items}, focus, res
		}
		items, focus, res := MergeEmptyItem(b.CheckItems, i, CheckItems{})
		return domain.BlockPatch{CheckItems: items}, focus, res
	})
}

// SetItemText replaces the text of item i.
func (c *Controller) SetItemText(sectionIndex int, blockID string, i int, text string) domain.Result {
	_, res := c.editItems(sectionIndex, blockID, func(b *domain.Block) (domain.BlockPatch, int, domain.Result) {
		if b.Type == domain.BlockTypeList {
			if !inRange(i, len(b.ListItems)) {
				return domain.BlockPatch{}, i, domain.Rejected(domain.ReasonOutOfRange)
			}
			return domain.BlockPatch{ListItems: replaceAt(b.ListItems, i, text)}, i, domain.Applied()
		}
		if !inRange(i, len(b.CheckItems)) {
			return domain.BlockPatch{}, i, domain.Rejected(domain.ReasonOutOfRange)
		}
		item := b.CheckItems[i]
		item.Text = text
		return domain.BlockPatch{CheckItems: replaceAt(b.CheckItems, i, item)}, i, domain.Applied()
	})
	return res
}

// ToggleCheckItem flips the checked flag of item i of a checklist block.
func (c *Controller) ToggleCheckItem(sectionIndex int, blockID string, i int) domain.Result {
	_, res := c.editItems(sectionIndex, blockID, func(b *domain.Block) (domain.BlockPatch, int, domain.Result) {
		if b.Type != domain.BlockTypeChecklist {
			return domain.BlockPatch{}, i, domain.Rejected(domain.ReasonNotListBlock)
		}
		if !inRange(i, len(b.CheckItems)) {
			return domain.BlockPatch{}, i, domain.Rejected(domain.ReasonOutOfRange)
		}
		item := b.CheckItems[i]
		item.Checked = !item.Checked
		return domain.BlockPatch{CheckItems: replaceAt(b.CheckItems, i, item)}, i, domain.Applied()
	})
	return res
}
