package domain

import "slices"

// BlockPatch is a partial update of a block. Nil fields are left untouched.
// MediaURL set to "" clears the media reference.
type BlockPatch struct {
	Content    *string     `json:"content,omitempty"`
	Level      *int        `json:"level,omitempty"`
	Align      *Align      `json:"align,omitempty"`
	MediaURL   *string     `json:"mediaUrl,omitempty"`
	Caption    *string     `json:"caption,omitempty"`
	ListItems  []string    `json:"listItems,omitempty"`
	CheckItems []CheckItem `json:"checkItems,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p BlockPatch) Empty() bool {
	return p.Content == nil && p.Level == nil && p.Align == nil && p.MediaURL == nil &&
		p.Caption == nil && p.ListItems == nil && p.CheckItems == nil
}

// Apply shallow-merges p into b. It returns b itself when nothing changes,
// a new block otherwise. b is never modified.
func (p BlockPatch) Apply(b *Block) (*Block, Reason) {
	if reason := p.check(b.Type); reason != "" {
		return b, reason
	}

	next := b.Clone()
	changed := false
	if p.Content != nil && *p.Content != b.Content {
		next.Content = *p.Content
		changed = true
	}
	if p.Level != nil && *p.Level != b.Level {
		next.Level = *p.Level
		changed = true
	}
	if p.Align != nil && *p.Align != b.Align {
		next.Align = *p.Align
		changed = true
	}
	if p.MediaURL != nil && *p.MediaURL != b.MediaURL {
		next.MediaURL = *p.MediaURL
		changed = true
	}
	if p.Caption != nil && *p.Caption != b.Caption {
		next.Caption = *p.Caption
		changed = true
	}
	if p.ListItems != nil && !slices.Equal(p.ListItems, b.ListItems) {
		next.ListItems = append([]string(nil), p.ListItems...)
		changed = true
	}
	if p.CheckItems != nil && !slices.Equal(p.CheckItems, b.CheckItems) {
		next.CheckItems = append([]CheckItem(nil), p.CheckItems...)
		changed = true
	}
	if !changed {
		return b, ""
	}
	return next, ""
}

func (p BlockPatch) check(t BlockType) Reason {
	if (p.Content != nil || p.Align != nil) && !t.HasText() {
		return ReasonFieldNotApplicable
	}
	if p.Level != nil && t != BlockTypeHeading {
		return ReasonFieldNotApplicable
	}
	if (p.MediaURL != nil || p.Caption != nil) && !t.HasMedia() {
		return ReasonFieldNotApplicable
	}
	if p.ListItems != nil && t != BlockTypeList {
		return ReasonFieldNotApplicable
	}
	if p.CheckItems != nil && t != BlockTypeChecklist {
		return ReasonFieldNotApplicable
	}
	if p.Level != nil && (*p.Level < 1 || *p.Level > 3) {
		return ReasonInvalidValue
	}
	if p.Align != nil && !p.Align.Valid() {
		return ReasonInvalidValue
	}
	if p.ListItems != nil && len(p.ListItems) == 0 {
		return ReasonMinItems
	}
	if p.CheckItems != nil && len(p.CheckItems) == 0 {
		return ReasonMinItems
	}
	return ""
}
