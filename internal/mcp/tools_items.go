package mcpserver

import (
	"context"

	"trainings/internal/domain"
	"trainings/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerItemTools() {
	s.mcp.AddTool(mcp.NewTool("split_item",
		mcp.WithDescription("Insert an empty item after item i of a list or checklist block (Enter)"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("item", mcp.Description("Item index"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
	), s.itemHandler(splitItem))

	s.mcp.AddTool(mcp.NewTool("merge_item",
		mcp.WithDescription("Remove empty item i of a list or checklist block (Backspace). The last item is kept."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("item", mcp.Description("Item index"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
	), s.itemHandler(mergeItem))

	s.mcp.AddTool(mcp.NewTool("set_item_text",
		mcp.WithDescription("Replace the text of item i of a list or checklist block"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("item", mcp.Description("Item index"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Item text")),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
	), s.itemHandler(setItemText))

	s.mcp.AddTool(mcp.NewTool("toggle_check_item",
		mcp.WithDescription("Flip the checked state of item i of a checklist block"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("item", mcp.Description("Item index"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
	), s.itemHandler(toggleCheckItem))
}

// itemEdit runs one list item command. A negative focus means the command
// does not move the caret.
type itemEdit func(c *editor.Controller, si int, blockID string, i int, args map[string]any) (focus int, res domain.Result)

func splitItem(c *editor.Controller, si int, blockID string, i int, _ map[string]any) (int, domain.Result) {
	return c.SplitItem(si, blockID, i)
}

func mergeItem(c *editor.Controller, si int, blockID string, i int, _ map[string]any) (int, domain.Result) {
	return c.MergeItem(si, blockID, i)
}

func setItemText(c *editor.Controller, si int, blockID string, i int, args map[string]any) (int, domain.Result) {
	return -1, c.SetItemText(si, blockID, i, getString(args, "text"))
}

func toggleCheckItem(c *editor.Controller, si int, blockID string, i int, _ map[string]any) (int, domain.Result) {
	return -1, c.ToggleCheckItem(si, blockID, i)
}

func (s *Server) itemHandler(edit itemEdit) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		sess, err := s.session(args)
		if err != nil {
			return nil, err
		}
		blockID, err := requireString(args, "blockId")
		if err != nil {
			return nil, err
		}
		i, err := requireInt(args, "item")
		if err != nil {
			return nil, err
		}
		si := sectionFor(sess, args, blockID)

		focus := -1
		res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
			var r domain.Result
			focus, r = edit(c, si, blockID, i, args)
			return r
		})
		out := s.command(sess, res)
		if focus >= 0 && res.Changed() {
			out.Focus = &focus
		}
		return jsonResult(out)
	}
}
