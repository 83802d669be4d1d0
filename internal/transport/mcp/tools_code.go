package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/veldt-labs/scout/internal/domain/record"
	"github.com/veldt-labs/scout/internal/domain/schema"
	"github.com/veldt-labs/scout/internal/domain/search/request"
	"github.com/veldt-labs/scout/internal/render"
	"github.com/veldt-labs/scout/internal/usecase/search"
)

// analysisSampleQuery is the broad query used to pull a representative
// sample of a repository for pattern analysis.
const analysisSampleQuery = "code implementation function class method"

// RegisterCodeTools registers the repository-scoped code search tool set.
func (s *Server) RegisterCodeTools(sch schema.Schema, searcher SearchService, store StoreService, limit int) {
	s.registerSearchRepository(sch, searcher, limit)
	s.registerAnalyzePatterns(sch, searcher, limit)
	s.registerFindImplementations(sch, searcher, limit)
	if store != nil {
		s.registerStore(sch, store)
		s.registerStoreBatch(sch, store)
	}
}

func (s *Server) registerSearchRepository(sch schema.Schema, searcher SearchService, limit int) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Search for code patterns and implementations within a repository. " +
				"Use this tool to find specific functionality, patterns, or implementations within a codebase. " +
				"Always specify repository_id to scope your search. " +
				"Use themes to find semantic patterns (e.g., 'authentication', 'database', 'api').",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Semantic search query for finding code patterns, functionality, or implementations"),
		),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return")),
	}
	opts = append(opts, schemaToolOptions(sch)...)

	s.mcp.AddTool(mcp.NewTool("scout-search-repository", opts...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			scopeID := stringArg(args, sch.Scope().Name)
			query := stringArg(args, "query")

			r, err := request.New(scopeID, query, collectFilters(sch, args), intArg(args, "limit", limit))
			if err != nil {
				return s.toolError("scout-search-repository", err), nil
			}

			matches, err := searcher.Search(ctx, r)
			if err != nil {
				return s.toolError("scout-search-repository", err), nil
			}

			return textBlocks(render.CodeSearchResults(matches, scopeID, query)), nil
		})
}

func (s *Server) registerAnalyzePatterns(sch schema.Schema, searcher SearchService, limit int) {
	tool := mcp.NewTool("scout-analyze-patterns",
		mcp.WithDescription(
			"Analyze code patterns, themes, and architecture within a repository. "+
				"Provides insights into codebase structure, common patterns, and technology usage.",
		),
		mcp.WithString("repository_id",
			mcp.Required(),
			mcp.Description("Repository identifier in format 'owner/repo'"),
		),
		mcp.WithString("themes",
			mcp.Description(`Specific themes to analyze. Pass a JSON array string, e.g. '["authentication", "database"]'.`),
		),
		mcp.WithString("programming_language",
			mcp.Description("Focus analysis on a specific programming language"),
		),
		mcp.WithString("directory",
			mcp.Description("Analyze a specific directory within the repository"),
		),
	)

	s.mcp.AddTool(tool,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			scopeID := stringArg(args, "repository_id")

			filters := make(map[string]string)
			for _, key := range []string{"themes", "programming_language", "directory"} {
				if v := stringArg(args, key); v != "" {
					filters[key] = v
				}
			}

			// Broad sampling query; focus themes sharpen it.
			query := analysisSampleQuery
			if themesRaw := filters["themes"]; themesRaw != "" {
				themes, err := search.ParseJSONList("themes", themesRaw)
				if err != nil {
					return s.toolError("scout-analyze-patterns", err), nil
				}
				if len(themes) > 0 {
					query = strings.Join(themes, " ") + " " + query
				}
			}

			r, err := request.New(scopeID, query, filters, analysisLimit(limit))
			if err != nil {
				return s.toolError("scout-analyze-patterns", err), nil
			}

			matches, err := searcher.Search(ctx, r)
			if err != nil {
				return s.toolError("scout-analyze-patterns", err), nil
			}

			return textBlocks(render.CodePatternAnalysis(matches, scopeID)), nil
		})
}

func (s *Server) registerFindImplementations(sch schema.Schema, searcher SearchService, limit int) {
	tool := mcp.NewTool("scout-find-implementations",
		mcp.WithDescription(
			"Find all implementations of a specific pattern or functionality within a repository. "+
				"Useful for discovering how features are implemented, comparing approaches, or finding code examples. "+
				"Returns implementations ranked by semantic similarity to the pattern query.",
		),
		mcp.WithString("repository_id",
			mcp.Required(),
			mcp.Description("Repository identifier in format 'owner/repo'"),
		),
		mcp.WithString("pattern_query",
			mcp.Required(),
			mcp.Description("Description of the pattern or functionality to find (e.g., 'user authentication', 'database connection', 'API endpoints')"),
		),
		mcp.WithString("themes",
			mcp.Description(`Expected themes for the pattern. Pass a JSON array string, e.g. '["authentication"]'.`),
		),
		mcp.WithString("programming_language",
			mcp.Description("Expected programming language"),
		),
		mcp.WithNumber("min_complexity",
			mcp.Description("Minimum complexity score for implementations"),
		),
		mcp.WithNumber("limit", mcp.Description("Maximum number of implementations to return")),
	)

	s.mcp.AddTool(tool,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			scopeID := stringArg(args, "repository_id")
			patternQuery := stringArg(args, "pattern_query")

			filters := make(map[string]string)
			for _, key := range []string{"themes", "programming_language"} {
				if v := stringArg(args, key); v != "" {
					filters[key] = v
				}
			}
			if v, ok := args["min_complexity"].(float64); ok {
				filters["complexity_score"] = fmt.Sprintf("%g", v)
			}

			r, err := request.New(scopeID, patternQuery, filters, intArg(args, "limit", limit))
			if err != nil {
				return s.toolError("scout-find-implementations", err), nil
			}

			matches, err := searcher.Search(ctx, r)
			if err != nil {
				return s.toolError("scout-find-implementations", err), nil
			}

			return textBlocks(render.Implementations(matches, scopeID, patternQuery)), nil
		})
}

func (s *Server) registerStore(sch schema.Schema, store StoreService) {
	scope := sch.Scope().Name

	tool := mcp.NewTool("scout-store",
		mcp.WithDescription(
			"Store a searchable record with metadata. The content is embedded and "+
				"becomes discoverable through the search tools.",
		),
		mcp.WithString("information",
			mcp.Required(),
			mcp.Description("The content to store"),
		),
		mcp.WithString(scope,
			mcp.Required(),
			mcp.Description(sch.Scope().Description),
		),
		mcp.WithString("id",
			mcp.Description("Record identifier; generated when omitted"),
		),
		mcp.WithObject("metadata",
			mcp.Description("Flat metadata to store with the record; values must be strings, numbers, or booleans"),
		),
	)

	s.mcp.AddTool(tool,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			payload := map[string]string{scope: stringArg(args, scope)}
			if meta, ok := args["metadata"].(map[string]any); ok {
				if err := metadataPayload(payload, meta); err != nil {
					return s.toolError("scout-store", err), nil
				}
			}

			rec, err := record.New(stringArg(args, "id"), stringArg(args, "information"), payload)
			if err != nil {
				return s.toolError("scout-store", err), nil
			}

			id, err := store.Store(ctx, rec)
			if err != nil {
				return s.toolError("scout-store", err), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Stored record '%s'", id)), nil
		})
}

func (s *Server) registerStoreBatch(sch schema.Schema, store StoreService) {
	scope := sch.Scope().Name

	tool := mcp.NewTool("scout-store-batch",
		mcp.WithDescription(
			"Store multiple searchable records in one call. Contents are embedded "+
				"together and written in a single pipelined operation.",
		),
		mcp.WithString(scope,
			mcp.Required(),
			mcp.Description(sch.Scope().Description),
		),
		mcp.WithArray("records",
			mcp.Required(),
			mcp.Description("Records to store: objects with 'information' (required), "+
				"optional 'id', and optional flat 'metadata'"),
		),
	)

	s.mcp.AddTool(tool,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := parseArgs(req)
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}

			recs, err := batchRecords(scope, stringArg(args, scope), args["records"])
			if err != nil {
				return s.toolError("scout-store-batch", err), nil
			}

			ids, err := store.StoreBatch(ctx, recs)
			if err != nil {
				return s.toolError("scout-store-batch", err), nil
			}

			return mcp.NewToolResultText(
				fmt.Sprintf("Stored %d records: %s", len(ids), strings.Join(ids, ", ")),
			), nil
		})
}

// analysisLimit widens the search for analysis tools: more entries give
// better distribution estimates, capped to keep queries bounded.
func analysisLimit(limit int) int {
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	return min(limit*3, 100)
}
