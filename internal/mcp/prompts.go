package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("outline_training",
		mcp.WithPromptDescription("Draft a new training as sections and blocks"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the training teaches"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("audience",
			mcp.ArgumentDescription("Who takes the training (optional)"),
		),
	), s.handleOutlinePrompt)
}

func (s *Server) handleOutlinePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	audience := req.Params.Arguments["audience"]
	if audience == "" {
		audience = "new employees"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Outline a training about: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Create a training about "%s" for %s.

Steps:
1. Call open_training with a title to start a new training and note the trainingId.
2. Rename the first section with rename_section, then add_section for each further module (3 to 6 in total).
3. In each section use add_block and update_block:
   - a heading block (level 1) with the module goal
   - text blocks with the explanation, short paragraphs
   - a list block for key points, or a checklist block for tasks the learner must complete
   - a quote block for an important policy or rule, if any
4. Use divider blocks to separate long parts of a section.
5. Check the result with get_document, then save_training.

Every tool answers with a status. "rejected" comes with a reason; fix the arguments and try again.`, topic, audience),
				},
			},
		},
	}, nil
}
