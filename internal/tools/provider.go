package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"siren/internal/backend"
	"siren/internal/config"
	"siren/internal/oauth"
	"siren/pkg/logging"
)

// messageActions are the interactions a message may attach.
var messageActions = []string{"call", "email", "website", "image"}

// Provider declares the alerting tools and routes their invocations to the
// backend.
type Provider struct {
	cfg config.BackendConfig
}

// NewProvider creates a tool provider for the given backend.
func NewProvider(cfg config.BackendConfig) *Provider {
	return &Provider{cfg: cfg}
}

// Register adds the alerting tools to the MCP server.
func (p *Provider) Register(s *server.MCPServer) {
	listChannelsTool := mcp.NewTool("list_channels",
		mcp.WithDescription("Search the organization's notification channels, optionally filtered by name"),
		mcp.WithString("name",
			mcp.Description("Substring to filter channel names by"),
		),
	)
	s.AddTool(listChannelsTool, p.handleListChannels)

	sendMessageTool := mcp.NewTool("send_message",
		mcp.WithDescription("Broadcast a message to one or more notification channels"),
		mcp.WithArray("channel-uuid",
			mcp.Required(),
			mcp.Description("UUIDs of the target channels"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Message title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Message body"),
		),
		mcp.WithString("action",
			mcp.Description("Optional interaction attached to the message"),
			mcp.Enum(messageActions...),
		),
		mcp.WithString("action_value",
			mcp.Description("Value for the action, e.g. a phone number or URL"),
		),
		mcp.WithString("image",
			mcp.Description("Optional image reference"),
		),
	)
	s.AddTool(sendMessageTool, p.handleSendMessage)
}

// newClient builds a backend client scoped to the calling request. The
// credential is attached per request because each inbound connection may
// belong to a different caller.
func (p *Provider) newClient(ctx context.Context) (*backend.Client, error) {
	cred, ok := oauth.CredentialFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no credential attached to request")
	}

	client := backend.NewClient(p.cfg.BaseURL, p.cfg.Timeout.Std())
	client.SetToken(cred.Token)
	return client, nil
}

// handleListChannels implements the list_channels tool.
func (p *Provider) handleListChannels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := backend.ChannelQuery{
		Name: request.GetString("name", ""),
	}

	channels, err := client.SearchChannels(ctx, query)
	if err != nil {
		logging.Warn("Tools", "list_channels failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list channels: %v", err)), nil
	}

	payload, err := json.MarshalIndent(channels, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format channels: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// handleSendMessage implements the send_message tool. All argument
// validation happens before any outbound call.
func (p *Provider) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	channelUUIDs := stringSliceArg(args["channel-uuid"])
	if len(channelUUIDs) == 0 {
		return mcp.NewToolResultError("channel-uuid is required and must be a non-empty list of strings"), nil
	}

	title, err := request.RequireString("title")
	if err != nil || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	content, err := request.RequireString("content")
	if err != nil || content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	action := request.GetString("action", "")
	if action != "" && !validAction(action) {
		return mcp.NewToolResultError(fmt.Sprintf("action must be one of %v", messageActions)), nil
	}

	client, err := p.newClient(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := backend.Message{
		ChannelUUIDs: channelUUIDs,
		Title:        title,
		Content:      content,
		Action:       action,
		ActionValue:  request.GetString("action_value", ""),
		Image:        request.GetString("image", ""),
	}

	sent, err := client.SendMessage(ctx, msg, nil)
	if err != nil {
		logging.Warn("Tools", "send_message failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}

	result := fmt.Sprintf("Message %q sent to %d channel(s)", title, len(channelUUIDs))
	if len(sent) > 0 {
		payload, err := json.MarshalIndent(sent, "", "  ")
		if err == nil {
			result += "\n\n" + string(payload)
		}
	}
	return mcp.NewToolResultText(result), nil
}

// stringSliceArg converts a JSON array argument into a string slice.
// Non-string elements are dropped.
func stringSliceArg(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// validAction reports whether the action is one of the supported values.
func validAction(action string) bool {
	for _, a := range messageActions {
		if a == action {
			return true
		}
	}
	return false
}
