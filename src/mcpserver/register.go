package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/telegram-connector/telegram-mcp/src/json"
)

// MCPServer assembles the mcp-go server with all six tools registered.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		"telegram-mcp",
		Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithInstructions("Telegram MCP Connector - search and inspect Telegram channels"),
	)
	s.registerTools(srv)
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout until the transport
// closes. Logs must go to stderr: stdout carries the protocol.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.MCPServer())
}

// ServeHTTP runs the MCP server over streamable HTTP on addr.
func (s *Server) ServeHTTP(addr string) error {
	return mcpserver.NewStreamableHTTPServer(s.MCPServer()).Start(addr)
}

func (s *Server) registerTools(srv *mcpserver.MCPServer) {
	srv.AddTool(mcp.NewTool("check_mcp_status",
		mcp.WithDescription("Health check: Telegram connectivity, rate limiter balance and server version"),
	), s.handle("check_mcp_status", func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		return s.CheckStatus(ctx)
	}))

	srv.AddTool(mcp.NewTool("get_subscribed_channels",
		mcp.WithDescription("List subscribed Telegram channels with pagination"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of channels to return (default: 20)")),
		mcp.WithNumber("offset", mcp.Description("Offset for pagination (default: 0)")),
	), s.handle("get_subscribed_channels", func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		return s.GetSubscribedChannels(ctx, cast.ToUint32(args["limit"]), cast.ToUint32(args["offset"]))
	}))

	srv.AddTool(mcp.NewTool("get_channel_info",
		mcp.WithDescription("Get detailed information about a Telegram channel"),
		mcp.WithString("channel_identifier", mcp.Required(),
			mcp.Description("Channel username (@channel) or numeric ID")),
	), s.handle("get_channel_info", func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		return s.GetChannelInfo(ctx, cast.ToString(req.GetArguments()["channel_identifier"]))
	}))

	srv.AddTool(mcp.NewTool("generate_message_link",
		mcp.WithDescription("Generate https:// and tg:// deep links for a message"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("Numeric channel ID")),
		mcp.WithNumber("message_id", mcp.Required(), mcp.Description("Message ID within the channel")),
		mcp.WithBoolean("include_tg_protocol", mcp.Description("Also return the tg:// link (default: true)")),
	), s.handle("generate_message_link", func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		return s.GenerateMessageLink(
			cast.ToString(args["channel_id"]),
			cast.ToInt64(args["message_id"]),
			boolArg(args, "include_tg_protocol", true),
		)
	}))

	srv.AddTool(mcp.NewTool("open_message_in_telegram",
		mcp.WithDescription("Open a message in Telegram Desktop (macOS only)"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("Numeric channel ID")),
		mcp.WithNumber("message_id", mcp.Required(), mcp.Description("Message ID within the channel")),
		mcp.WithBoolean("use_tg_protocol", mcp.Description("Open via tg:// instead of https:// (default: true)")),
	), s.handle("open_message_in_telegram", func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		return s.OpenMessage(ctx,
			cast.ToString(args["channel_id"]),
			cast.ToInt64(args["message_id"]),
			boolArg(args, "use_tg_protocol", true),
		)
	}))

	srv.AddTool(mcp.NewTool("search_messages",
		mcp.WithDescription("Search messages across subscribed Telegram channels (rate limited)"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query text")),
		mcp.WithString("channel_id", mcp.Description("Restrict the search to one channel ID")),
		mcp.WithNumber("hours_back", mcp.Description("How many hours back to search (default: 48, max: 72)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default: 20, max: 100)")),
	), s.handle("search_messages", func(ctx context.Context, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		sa := SearchArgs{Query: cast.ToString(args["query"])}
		if v, ok := args["channel_id"]; ok {
			cid := cast.ToString(v)
			sa.ChannelID = &cid
		}
		if v, ok := args["hours_back"]; ok {
			hb := cast.ToUint32(v)
			sa.HoursBack = &hb
		}
		if v, ok := args["limit"]; ok {
			lim := cast.ToUint32(v)
			sa.Limit = &lim
		}
		return s.SearchMessages(ctx, sa)
	}))
}

// handle wraps a tool body with call logging and JSON result encoding.
// Failures become MCP tool errors carrying the taxonomy message.
func (s *Server) handle(tool string, fn func(ctx context.Context, req mcp.CallToolRequest) (any, error)) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()[:8]
		s.logger("tool=%s call=%s start", tool, callID)

		result, err := fn(ctx, req)
		if err != nil {
			s.logger("tool=%s call=%s error: %v", tool, callID, err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := json.Marshal(result)
		if err != nil {
			s.logger("tool=%s call=%s encode error: %v", tool, callID, err)
			return mcp.NewToolResultError(fmt.Sprintf("encode response: %v", err)), nil
		}
		s.logger("tool=%s call=%s ok", tool, callID)
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// boolArg reads an optional boolean argument with a default.
func boolArg(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	return cast.ToBool(v)
}
