// ABOUTME: MCP tool definitions and registration for the plot search server
// ABOUTME: Exposes movie search and cache status to LLM agents
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/plotsearch/internal/cache"
	"github.com/harper/plotsearch/internal/search"
)

// ServerName is the implementation name reported to MCP clients
const ServerName = "plotsearch"

// NewServer creates an MCP server reporting version with every tool registered
func NewServer(version string, engine *search.Engine, manager *cache.Manager) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(
		ServerName,
		version,
		mcpserver.WithToolCapabilities(false),
	)
	RegisterTools(server, engine, manager)
	return server
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, engine *search.Engine, manager *cache.Manager) *Handlers {
	handlers := NewHandlers(engine, manager)

	// 1. search_movies - semantic search over plots
	server.AddTool(mcp.Tool{
		Name:        "search_movies",
		Description: "Find movies whose plot is most similar in meaning to a natural-language description. Results are ordered by cosine similarity, best first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Description of the plot to look for, e.g. 'spy thriller in Paris'",
				},
				"top_n": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     search.DefaultTopN,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchMovies)

	// 2. cache_status - report whether cached embeddings match the dataset
	server.AddTool(mcp.Tool{
		Name:        "cache_status",
		Description: "Report whether the cached plot embeddings are current for the dataset, without computing anything.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.CacheStatus)

	return handlers
}
