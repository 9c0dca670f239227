package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerSnapshotResource(srv, svc)
	registerHorizonTemplate(srv, svc)
	registerHeatmapTemplate(srv, svc)
}

func registerSnapshotResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"focus://snapshot",
		"Snapshot",
		mcp.WithResourceDescription("Every horizon with its tasks, today's setup and habit status."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := svc.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, snap)
	})
}

func registerHorizonTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"focus://horizons/{name}",
		"Horizon",
		mcp.WithTemplateDescription("One horizon with its capacity and ordered tasks."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := argument(request, "name")
		if name == "" {
			return nil, fmt.Errorf("horizon name is required")
		}
		h, err := svc.Horizon(ctx, name)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"horizon":   h,
			"open":      h.OpenCount(),
			"remaining": h.Remaining(),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerHeatmapTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"focus://heatmap/{year}",
		"Activity heatmap",
		mcp.WithTemplateDescription("53x7 grid of weighted daily activity for a year."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		year, err := strconv.Atoi(argument(request, "year"))
		if err != nil {
			return nil, fmt.Errorf("year must be a number: %w", err)
		}
		grid, err := svc.Heatmap(ctx, year)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, grid)
	})
}

// argument reads a template variable, which arrives as a string or a
// single-element list depending on the client.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
