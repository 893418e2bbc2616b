package api

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/phonocoach/pkg/align"
	"github.com/hazyhaar/phonocoach/pkg/kit"
)

// RegisterMCPTools registers the phonocoach MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, eps *Endpoints) {
	kit.RegisterMCPTool(srv, mcp.NewTool("diff_tokens",
		mcp.WithDescription("Align a spoken transcript against the target phrase word by word. Returns ok/missing/extra/substituted tokens and display labels."),
		mcp.WithString("target", mcp.Required(), mcp.Description("The phrase the learner was asked to say")),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("What the speech recognizer heard")),
	), eps.Diff, decodeDiff)

	kit.RegisterMCPTool(srv, mcp.NewTool("evaluate_attempt",
		mcp.WithDescription("Diff and score a spoken attempt: tokens, accuracy, pass/fail, labels and near-miss hints for substituted words."),
		mcp.WithString("target", mcp.Required(), mcp.Description("The phrase the learner was asked to say")),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("What the speech recognizer heard")),
	), eps.Evaluate, decodeDiff)

	kit.RegisterMCPTool(srv, mcp.NewTool("token_accuracy",
		mcp.WithDescription("Score a previously computed diff. Extra words never count against the learner."),
		mcp.WithString("tokens", mcp.Required(), mcp.Description(`JSON array of diff tokens, e.g. [{"status":"ok","expected":"hi","actual":"hi"}]`)),
	), eps.Accuracy, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		raw, err := stringArg(req, "tokens")
		if err != nil {
			return nil, err
		}
		tokens, err := align.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("tokens: %w", err)
		}
		return &kit.MCPDecodeResult{Request: &AccuracyRequest{Tokens: tokens}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("to_ipa",
		mcp.WithDescription("Transcribe text to broad IPA. Supports English (en) and Italian (it); other locales return an empty transcription."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to transcribe")),
		mcp.WithString("locale", mcp.Description("Locale tag such as en, en-GB or it (default en)")),
	), eps.IPA, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		text, err := stringArg(req, "text")
		if err != nil {
			return nil, err
		}
		locale, _ := req.GetArguments()["locale"].(string)
		return &kit.MCPDecodeResult{Request: &IPARequest{Text: text, Locale: locale}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("extract_ipa_symbols",
		mcp.WithDescription("List the pronunciation-guide symbols present in an IPA transcription, with the guide rows flagged."),
		mcp.WithString("ipa", mcp.Required(), mcp.Description("IPA transcription, e.g. /həˈloʊ/")),
	), eps.Symbols, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		s, err := stringArg(req, "ipa")
		if err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &SymbolsRequest{IPA: s}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("list_dicts",
		mcp.WithDescription("List all loaded pronunciation dictionaries with metadata (locale, source, license, entry count)."),
	), eps.Dicts, func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

func decodeDiff(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	target, err := stringArg(req, "target")
	if err != nil {
		return nil, err
	}
	transcript, _ := req.GetArguments()["transcript"].(string)
	return &kit.MCPDecodeResult{Request: &DiffRequest{Target: target, Transcript: transcript}}, nil
}

func stringArg(req mcp.CallToolRequest, name string) (string, error) {
	v, ok := req.GetArguments()[name].(string)
	if !ok {
		return "", fmt.Errorf("missing string argument %q", name)
	}
	return v, nil
}
