// ABOUTME: MCP tool handler implementations for the plot search server
// ABOUTME: Failures are reported as tool-result errors, never protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/plotsearch/internal/cache"
	"github.com/harper/plotsearch/internal/models"
	"github.com/harper/plotsearch/internal/search"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine  *search.Engine
	manager *cache.Manager
}

// NewHandlers creates handlers over an engine and the manager backing it
func NewHandlers(engine *search.Engine, manager *cache.Manager) *Handlers {
	return &Handlers{engine: engine, manager: manager}
}

// SearchMovies handles the search_movies tool
func (h *Handlers) SearchMovies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topN := request.GetInt("top_n", search.DefaultTopN)

	results, err := h.engine.Search(ctx, query, topN)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidArgument):
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		case errors.Is(err, models.ErrDatasetNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("dataset unavailable: %v", err)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
	}

	response := map[string]interface{}{
		"query":   query,
		"top_n":   topN,
		"count":   len(results),
		"results": results,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// CacheStatus handles the cache_status tool
func (h *Handlers) CacheStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.manager.Status(ctx, h.engine.DatasetPath())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read cache status: %v", err)), nil
	}

	responseJSON, err := json.Marshal(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
