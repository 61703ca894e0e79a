package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/hevyplan/internal/resolve"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) aliases(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(resolve.Aliases)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
