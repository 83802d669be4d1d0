package mcp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/record"
	"github.com/veldt-labs/scout/internal/domain/schema"
)

// schemaToolOptions generates one tool parameter per exposed schema field.
// The scope field is required; multi-valued fields take a JSON array string.
func schemaToolOptions(sch schema.Schema) []mcp.ToolOption {
	var opts []mcp.ToolOption
	for _, f := range sch.Exposed() {
		desc := f.Description
		if f.MultiValued() {
			desc += ` Pass a JSON array string, e.g. '["value1", "value2"]'.`
		}

		switch {
		case f.Required:
			opts = append(opts, mcp.WithString(f.Name, mcp.Required(), mcp.Description(desc)))
		case f.MultiValued():
			opts = append(opts, mcp.WithString(f.Name, mcp.Description(desc)))
		case f.Type == schema.Numeric:
			opts = append(opts, mcp.WithNumber(f.Name, mcp.Description(desc)))
		case f.Type == schema.Boolean:
			opts = append(opts, mcp.WithBoolean(f.Name, mcp.Description(desc)))
		default:
			opts = append(opts, mcp.WithString(f.Name, mcp.Description(desc)))
		}
	}
	return opts
}

// parseArgs extracts the argument map from a tool call.
func parseArgs(request mcp.CallToolRequest) (map[string]any, bool) {
	args, ok := request.Params.Arguments.(map[string]any)
	return args, ok
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// collectFilters gathers the schema's exposed non-scope parameters from the
// argument map into the uniform string form the filter builder expects.
func collectFilters(sch schema.Schema, args map[string]any) map[string]string {
	filters := make(map[string]string)
	for _, f := range sch.Exposed() {
		if f.Required {
			continue
		}
		v, present := args[f.Name]
		if !present {
			continue
		}

		switch val := v.(type) {
		case string:
			if val != "" {
				filters[f.Name] = val
			}
		case float64:
			filters[f.Name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			filters[f.Name] = strconv.FormatBool(val)
		}
	}
	return filters
}

// metadataPayload flattens a tool metadata object into string payload
// entries. Values must be strings, numbers, or booleans.
func metadataPayload(payload map[string]string, meta map[string]any) error {
	for k, v := range meta {
		switch val := v.(type) {
		case string:
			payload[k] = val
		case float64:
			payload[k] = fmt.Sprintf("%g", val)
		case bool:
			payload[k] = fmt.Sprintf("%t", val)
		default:
			return fmt.Errorf(
				"%w: metadata value for %q must be a string, number, or boolean", domain.ErrValidation, k,
			)
		}
	}
	return nil
}

// batchRecords converts the records argument of a batch store call into
// validated records, each carrying the scope payload.
func batchRecords(scope, scopeID string, raw any) ([]record.Record, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: records must be an array of objects", domain.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: records must not be empty", domain.ErrValidation)
	}

	recs := make([]record.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: records[%d] must be an object", domain.ErrValidation, i)
		}

		payload := map[string]string{scope: scopeID}
		if meta, ok := obj["metadata"].(map[string]any); ok {
			if err := metadataPayload(payload, meta); err != nil {
				return nil, fmt.Errorf("records[%d]: %w", i, err)
			}
		}

		info, _ := obj["information"].(string)
		id, _ := obj["id"].(string)
		rec, err := record.New(id, info, payload)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// textBlocks packs ordered text blocks into a single tool result.
func textBlocks(blocks []string) *mcp.CallToolResult {
	content := make([]mcp.Content, len(blocks))
	for i, b := range blocks {
		content[i] = mcp.TextContent{Type: "text", Text: b}
	}
	return &mcp.CallToolResult{Content: content}
}

// toolError maps an operation failure onto a single descriptive error
// result. Validation failures pass through verbatim; everything else is
// logged and reported by category so provider internals stay out of the
// model-facing text.
func (s *Server) toolError(op string, err error) *mcp.CallToolResult {
	if errors.Is(err, domain.ErrValidation) {
		return mcp.NewToolResultError(err.Error())
	}

	s.logger.Error("tool operation failed", zap.String("tool", op), zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrEmbedding):
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: embedding provider unavailable", op))
	case errors.Is(err, domain.ErrStorage):
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: search backend unavailable", op))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: internal error", op))
	}
}
