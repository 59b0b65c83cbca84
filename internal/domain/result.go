package domain

import "fmt"

// Status is the outcome class of an editing command.
type Status string

const (
	// StatusApplied means the document changed.
	StatusApplied Status = "applied"
	// StatusUnchanged means the document already was in the requested state.
	StatusUnchanged Status = "unchanged"
	// StatusRejected means the command was refused and the document is untouched.
	StatusRejected Status = "rejected"
)

// Reason qualifies a Result.
type Reason string

const (
	ReasonOutOfRange         Reason = "out_of_range"
	ReasonLastSection        Reason = "last_section"
	ReasonUnknownBlock       Reason = "unknown_block"
	ReasonUnknownType        Reason = "unknown_type"
	ReasonFieldNotApplicable Reason = "field_not_applicable"
	ReasonInvalidValue       Reason = "invalid_value"
	ReasonMinItems           Reason = "min_items"
	ReasonItemNotEmpty       Reason = "item_not_empty"
	ReasonNotListBlock       Reason = "not_list_block"
	ReasonStaleRevision      Reason = "stale_revision"
	ReasonNoDrag             Reason = "no_drag"
	ReasonNoDropTarget       Reason = "no_drop_target"

	// ReasonReplacedLastBlock accompanies an applied delete that substituted
	// a fresh text block for the last block of a section.
	ReasonReplacedLastBlock Reason = "replaced_last_block"
)

// Result reports what an editing command did.
type Result struct {
	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`
}

func Applied() Result { return Result{Status: StatusApplied} }

func Unchanged() Result { return Result{Status: StatusUnchanged} }

func Rejected(reason Reason) Result { return Result{Status: StatusRejected, Reason: reason} }

// OK reports whether the document is in the requested state, changed or not.
func (r Result) OK() bool { return r.Status != StatusRejected }

// Changed reports whether the document changed.
func (r Result) Changed() bool { return r.Status == StatusApplied }

func (r Result) String() string {
	if r.Reason == "" {
		return string(r.Status)
	}
	return fmt.Sprintf("%s (%s)", r.Status, r.Reason)
}
