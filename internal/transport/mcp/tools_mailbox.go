package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/veldt-labs/scout/internal/domain/schema"
	"github.com/veldt-labs/scout/internal/domain/search/request"
	"github.com/veldt-labs/scout/internal/render"
	"github.com/veldt-labs/scout/internal/usecase/search"
)

// mailboxSampleQuery pulls a representative sample of a mailbox for
// aggregate analysis.
const mailboxSampleQuery = "email message communication thread subject"

// RegisterMailboxTools registers the mailbox-scoped email search tool set.
func (s *Server) RegisterMailboxTools(sch schema.Schema, searcher SearchService, limit int) {
	s.registerSearchEmails(sch, searcher, limit)
	s.registerAnalyzeMailbox(sch, searcher, limit)
}

func (s *Server) registerSearchEmails(sch schema.Schema, searcher SearchService, limit int) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Search emails by semantic content and metadata filters. " +
				"Always specify mailbox_id to scope the search to one mailbox.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Semantic search query for finding emails by content or topic"),
		),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return")),
	}
	opts = append(opts, schemaToolOptions(sch)...)

	s.mcp.AddTool(mcp.NewTool("scout-search-emails", opts...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			scopeID := stringArg(args, sch.Scope().Name)
			query := stringArg(args, "query")

			r, err := request.New(scopeID, query, collectFilters(sch, args), intArg(args, "limit", limit))
			if err != nil {
				return s.toolError("scout-search-emails", err), nil
			}

			matches, err := searcher.Search(ctx, r)
			if err != nil {
				return s.toolError("scout-search-emails", err), nil
			}

			return textBlocks(render.EmailSearchResults(matches, query)), nil
		})
}

func (s *Server) registerAnalyzeMailbox(sch schema.Schema, searcher SearchService, limit int) {
	tool := mcp.NewTool("scout-analyze-mailbox",
		mcp.WithDescription(
			"Analyze mailbox patterns from a semantic sample: top senders, labels, "+
				"threads, and active days.",
		),
		mcp.WithString("mailbox_id",
			mcp.Required(),
			mcp.Description("Mailbox identifier, usually the account address"),
		),
		mcp.WithString("focus_terms",
			mcp.Description(`Terms to focus the sample on. Pass a JSON array string, e.g. '["invoice", "meeting"]'.`),
		),
		mcp.WithString("labels",
			mcp.Description(`Restrict the sample to emails with any of these labels. Pass a JSON array string.`),
		),
	)

	s.mcp.AddTool(tool,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			scopeID := stringArg(args, "mailbox_id")

			filters := make(map[string]string)
			if v := stringArg(args, "labels"); v != "" {
				filters["labels"] = v
			}

			query := mailboxSampleQuery
			if raw := stringArg(args, "focus_terms"); raw != "" {
				terms, err := search.ParseJSONList("focus_terms", raw)
				if err != nil {
					return s.toolError("scout-analyze-mailbox", err), nil
				}
				if len(terms) > 0 {
					query = strings.Join(terms, " ") + " " + query
				}
			}

			r, err := request.New(scopeID, query, filters, analysisLimit(limit))
			if err != nil {
				return s.toolError("scout-analyze-mailbox", err), nil
			}

			matches, err := searcher.Search(ctx, r)
			if err != nil {
				return s.toolError("scout-analyze-mailbox", err), nil
			}

			return textBlocks(render.MailboxAnalysis(matches)), nil
		})
}
