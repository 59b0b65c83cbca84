package service

import "errors"

var (
	ErrSessionNotOpen    = errors.New("session not open")
	ErrForbidden         = errors.New("training belongs to another company")
	ErrRewriteDisabled   = errors.New("rewrite assistance is not enabled for this session")
	ErrRewritePending    = errors.New("a rewrite for this block is already running")
	ErrNotRewritable     = errors.New("only text and quote blocks can be rewritten")
	ErrNotMediaBlock     = errors.New("block is not an image or video block")
	ErrMediaTooLarge     = errors.New("media exceeds the size limit")
	ErrMediaTypeMismatch = errors.New("media type does not match the block type")
	ErrBlockNotFound     = errors.New("block not found")
)
