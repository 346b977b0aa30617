package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askDocumentsTool defines the ask_documents MCP tool.
var askDocumentsTool = mcp.NewTool("ask_documents",
	mcp.WithDescription("Ask a question about the indexed documents. Returns an answer grounded in the retrieved passages, with source citations."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Number of passages to retrieve (defaults to the configured top_k)"),
	),
)

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search the indexed documents semantically. Returns the most relevant passages without generating an answer."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of passages to return (defaults to the configured top_k)"),
	),
)

// ingestPathTool defines the ingest_path MCP tool.
var ingestPathTool = mcp.NewTool("ingest_path",
	mcp.WithDescription("Index a document file, or every supported document under a directory (PDF, HTML, Markdown)."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("File or directory path to ingest"),
	),
)

// indexStatusTool defines the index_status MCP tool.
var indexStatusTool = mcp.NewTool("index_status",
	mcp.WithDescription("Report how many documents and chunks are indexed and which sources are loaded."),
)
