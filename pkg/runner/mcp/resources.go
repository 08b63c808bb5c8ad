package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerSessionResource(srv, svc)
	registerEntryTemplate(srv, svc)
}

func registerSessionResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"buttercsv://session",
		"Session",
		mcp.WithResourceDescription("Row, entry and page counts of the loaded table."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, summary)
	})
}

func registerEntryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"buttercsv://entries/{number}",
		"Entry Details",
		mcp.WithTemplateDescription("Original text, current text, share count and issues of one entry."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		number, err := entryNumber(request.Params.Arguments["number"])
		if err != nil {
			return nil, err
		}

		view, err := svc.Entry(ctx, number)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"entry": view,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// entryNumber reads a template argument, which arrives as a string or a
// one-element list of strings depending on the client.
func entryNumber(raw any) (int, error) {
	if list, ok := raw.([]string); ok && len(list) == 1 {
		raw = list[0]
	}
	n, err := cast.ToIntE(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("entry number is required")
	}
	return n, nil
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
