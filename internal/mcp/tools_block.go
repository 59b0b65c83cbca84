package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"trainings/internal/domain"
	"trainings/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBlockTools() {
	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block to a section. Appends unless after is given; after=-1 inserts at the start."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("type",
			mcp.Description("Block type: text, heading, image, video, divider, quote, list, checklist"),
			mcp.Required(),
		),
		mcp.WithNumber("section", mcp.Description("Section index (optional, defaults to active section)")),
		mcp.WithNumber("after", mcp.Description("Insert after this block index (optional)")),
	), s.handleAddBlock)

	// ── update_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Merge a patch into a block. Fields that do not apply to the block type are rejected."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("patch",
			mcp.Description(`JSON object with any of content, level, align, mediaUrl, caption, listItems, checkItems, e.g. {"content":"Olá"}`),
			mcp.Required(),
		),
		mcp.WithNumber("section", mcp.Description("Section index (optional, defaults to the block's section)")),
		mcp.WithNumber("revision", mcp.Description("Block revision the patch was computed against (optional)")),
	), s.handleUpdateBlock)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a block. Deleting the only block leaves an empty text block."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional, defaults to the block's section)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block within its section"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional, defaults to active section)")),
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	), s.handleMoveBlock)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	t, err := parseBlockType(args)
	if err != nil {
		return nil, err
	}
	si := activeOr(sess, args)

	var id string
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		var r domain.Result
		if after, ok := args["after"].(float64); ok {
			id, r = c.InsertBlock(si, t, int(after))
		} else {
			id, r = c.AddBlock(si, t)
		}
		return r
	})
	out := s.command(sess, res)
	out.ID = id
	return jsonResult(out)
}

func decodePatch(raw string) (domain.BlockPatch, error) {
	var patch domain.BlockPatch
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return patch, fmt.Errorf("invalid patch: %w", err)
	}
	return patch, nil
}

func (s *Server) handleUpdateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	raw, err := requireString(args, "patch")
	if err != nil {
		return nil, err
	}
	patch, err := decodePatch(raw)
	if err != nil {
		return nil, err
	}
	si := sectionFor(sess, args, blockID)

	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		if rev, ok := args["revision"].(float64); ok {
			return c.UpdateBlockAt(si, blockID, patch, uint64(rev))
		}
		return c.UpdateBlock(si, blockID, patch)
	})
	return jsonResult(s.command(sess, res))
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	si := sectionFor(sess, args, blockID)
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.DeleteBlock(si, blockID)
	})
	return jsonResult(s.command(sess, res))
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	from, err := requireInt(args, "from")
	if err != nil {
		return nil, err
	}
	to, err := requireInt(args, "to")
	if err != nil {
		return nil, err
	}
	si := activeOr(sess, args)
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.MoveBlock(si, from, to)
	})
	return jsonResult(s.command(sess, res))
}
