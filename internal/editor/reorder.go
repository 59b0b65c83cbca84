package editor

import "trainings/internal/domain"

// Scope is the boundary a drag gesture may reorder within.
type Scope struct {
	// Section is -1 for the section list, or the index of the section whose blocks are dragged.
	Section int
}

// SectionScope is the scope of the section navigator.
var SectionScope = Scope{Section: -1}

// BlockScope is the scope of the blocks of one section.
func BlockScope(sectionIndex int) Scope { return Scope{Section: sectionIndex} }

// IsSections reports whether the scope is the section list.
func (s Scope) IsSections() bool { return s.Section < 0 }

// Reorderer maps drag gestures onto index moves of a Controller. Items are
// addressed by id, as drag-and-drop surfaces report them.
type Reorderer struct {
	ctrl     *Controller
	scope    Scope
	activeID string
}

// NewReorderer binds a reorder layer to a controller.
func NewReorderer(c *Controller) *Reorderer {
	return &Reorderer{ctrl: c}
}

// BeginSectionDrag starts dragging the section with the given id.
func (r *Reorderer) BeginSectionDrag(sectionID string) domain.Result {
	if r.ctrl.Document().SectionIndex(sectionID) < 0 {
		return domain.Rejected(domain.ReasonOutOfRange)
	}
	r.scope, r.activeID = SectionScope, sectionID
	return domain.Applied()
}

// BeginBlockDrag starts dragging a block of the given section.
func (r *Reorderer) BeginBlockDrag(sectionIndex int, blockID string) domain.Result {
	if _, ok := r.ctrl.Block(sectionIndex, blockID); !ok {
		return domain.Rejected(domain.ReasonUnknownBlock)
	}
	r.scope, r.activeID = BlockScope(sectionIndex), blockID
	return domain.Applied()
}

// Dragging reports the gesture in progress, if any.
func (r *Reorderer) Dragging() (Scope, string, bool) {
	return r.scope, r.activeID, r.activeID != ""
}

// Cancel abandons the gesture in progress.
func (r *Reorderer) Cancel() {
	r.activeID = ""
}

// End completes the gesture over the item with id overID. A drop outside the
// gesture's scope, or over nothing, leaves the document as it was.
func (r *Reorderer) End(overID string) domain.Result {
	activeID := r.activeID
	r.activeID = ""
	if activeID == "" {
		return domain.Rejected(domain.ReasonNoDrag)
	}
	if overID == "" {
		return domain.Rejected(domain.ReasonNoDropTarget)
	}
	if overID == activeID {
		return domain.Unchanged()
	}

	doc := r.ctrl.Document()
	if r.scope.IsSections() {
		from, to := doc.SectionIndex(activeID), doc.SectionIndex(overID)
		if from < 0 || to < 0 {
			return domain.Rejected(domain.ReasonNoDropTarget)
		}
		return r.ctrl.MoveSection(from, to)
	}

	if !inRange(r.scope.Section, len(doc.Sections)) {
		return domain.Rejected(domain.ReasonNoDropTarget)
	}
	sec := doc.Sections[r.scope.Section]
	from, to := sec.BlockIndex(activeID), sec.BlockIndex(overID)
	if from < 0 || to < 0 {
		return domain.Rejected(domain.ReasonNoDropTarget)
	}
	return r.ctrl.MoveBlock(r.scope.Section, from, to)
}
