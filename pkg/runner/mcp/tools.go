package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/buttercsv/pkg/session"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListEntriesTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerEditEntryTool(srv, svc)
	registerRevertEntryTool(srv, svc)
	registerApplyEditsTool(srv, svc)
	registerCheckTextTool(srv, svc)
	registerRebuildTool(srv, svc)
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List one page of deduplicated entries, most shared first unless changed."),
		mcp.WithNumber("page",
			mcp.Description("1-based page number (default 1)."),
			mcp.Min(1),
		),
		mcp.WithNumber("min_duplicates",
			mcp.Description("Only show entries shared by at least this many rows."),
			mcp.Min(0),
		),
		mcp.WithBoolean("descending",
			mcp.Description("Sort by share count, highest first."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := ListOptions{Page: request.GetInt("page", 1)}
		args := request.GetArguments()
		if _, ok := args["min_duplicates"]; ok {
			min := request.GetInt("min_duplicates", 0)
			opts.MinDuplicates = &min
		}
		if _, ok := args["descending"]; ok {
			desc := request.GetBool("descending", true)
			opts.Descending = &desc
		}

		page, err := svc.ListEntries(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(page)
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Search entries by substring match on original or edited text."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchEntries(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single entry by its number."),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Entry number as shown by list_entries."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		number, err := request.RequireInt("number")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := svc.Entry(ctx, number)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerEditEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"edit_entry",
		mcp.WithDescription("Replace the text of an entry. Every row sharing it is updated on rebuild. Issues are reported but never block the edit."),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Entry number to edit."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New text. Surrounding whitespace is trimmed."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Number int    `json:"number"`
			Text   string `json:"text"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		view, err := svc.EditEntry(ctx, args.Number, args.Text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerRevertEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"revert_entry",
		mcp.WithDescription("Restore an entry to the text it was loaded with."),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Entry number to revert."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		number, err := request.RequireInt("number")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := svc.RevertEntry(ctx, number)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerApplyEditsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"apply_edits",
		mcp.WithDescription("Apply several edits at once. If any key is unknown nothing is changed."),
		mcp.WithArray("edits",
			mcp.Required(),
			mcp.Description("Edits keyed by the original entry text."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key":   map[string]any{"type": "string"},
					"value": map[string]any{"type": "string"},
				},
				"required": []string{"key", "value"},
			}),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Edits []session.Edit `json:"edits"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		results, err := svc.ApplyEdits(ctx, args.Edits)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"results": results,
			"count":   len(results),
		})
	})
}

func registerCheckTextTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"check_text",
		mcp.WithDescription("Check text against the line length, line count and color tag rules."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to check."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		issues := svc.CheckText(ctx, text)
		messages := make([]string, len(issues))
		for i, issue := range issues {
			messages[i] = issue.String()
		}
		return toJSONResult(map[string]any{
			"issues":   issues,
			"messages": messages,
			"ok":       len(issues) == 0,
		})
	})
}

func registerRebuildTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rebuild",
		mcp.WithDescription("Write the full output table with every edit applied and re-wrapped."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Destination CSV path."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		report, err := svc.Rebuild(ctx, strings.TrimSpace(path))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
