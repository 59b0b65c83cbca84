package mcpserver

import (
	"context"
	"fmt"

	"trainings/internal/domain"
	"trainings/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerReorderTools() {
	s.mcp.AddTool(mcp.NewTool("drag_end",
		mcp.WithDescription("Reorder by ids, as a finished drag gesture: move activeId to where overId is"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("scope", mcp.Description("sections or blocks"), mcp.Required()),
		mcp.WithString("activeId", mcp.Description("ID of the dragged section or block"), mcp.Required()),
		mcp.WithString("overId", mcp.Description("ID of the section or block dropped onto")),
		mcp.WithNumber("section", mcp.Description("Section index for block scope (optional, defaults to the dragged block's section)")),
	), s.handleDragEnd)
}

func (s *Server) handleDragEnd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	active, err := requireString(args, "activeId")
	if err != nil {
		return nil, err
	}
	over := getString(args, "overId")

	var begin func(r *editor.Reorderer) domain.Result
	switch scope := getString(args, "scope"); scope {
	case "sections":
		begin = func(r *editor.Reorderer) domain.Result { return r.BeginSectionDrag(active) }
	case "blocks":
		si := sectionFor(sess, args, active)
		begin = func(r *editor.Reorderer) domain.Result { return r.BeginBlockDrag(si, active) }
	default:
		return nil, fmt.Errorf("unknown scope %q (use sections or blocks)", scope)
	}

	res := sess.Drag(ctx, func(r *editor.Reorderer) domain.Result {
		if res := begin(r); !res.OK() {
			return res
		}
		return r.End(over)
	})
	return jsonResult(s.command(sess, res))
}
