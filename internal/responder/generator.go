// Package responder implements the response-generation policy: an ordered
// fallback chain across text-generation backends, short-circuit replies
// for common commands, and a rule-based responder when every backend
// comes up empty.
package responder

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nextlevelbuilder/lineclaw/internal/providers"
)

const systemPrompt = `你是一個友善且樂於助人的聊天機器人。請用繁體中文回應用戶。
特點：
- 友善、有禮貌
- 提供有用的資訊和建議
- 保持對話自然流暢
- 如果不確定答案，會誠實告知
- 避免提供有害或不當的內容`

const unavailableReply = "抱歉，AI 服務目前無法使用。請稍後再試。"

const greetingReply = "你好！我是你的智能助手，有什麼可以幫助你的嗎？"

const helpReply = `我可以幫助你：
• 回答各種問題
• 進行日常對話
• 提供資訊和建議
• 解釋概念和知識

直接輸入你的問題或想聊的話題就可以了！`

var (
	greetingTokens = []string{"hi", "hello", "你好", "嗨"}
	helpTokens     = []string{"help", "幫助", "說明"}
)

// Generator orchestrates one ordered attempt across the backend chain.
// The provider order encodes a cost/quality preference and is fixed:
// paid/high-quality first, free/local last.
type Generator struct {
	providers []providers.Provider
	available map[string]bool
}

// NewGenerator builds a Generator over the given backends in priority
// order. The capability set is computed once here and reused by both the
// orchestration short-circuit and the health endpoint.
func NewGenerator(provs ...providers.Provider) *Generator {
	available := make(map[string]bool, len(provs))
	for _, p := range provs {
		available[p.Name()] = p.Configured()
		if !available[p.Name()] {
			slog.Info("backend not configured, disabled", "backend", p.Name())
		}
	}
	return &Generator{providers: provs, available: available}
}

// Available reports whether at least one backend is available.
func (g *Generator) Available() bool {
	for _, ok := range g.available {
		if ok {
			return true
		}
	}
	return false
}

// Capabilities returns a copy of the backend-name → available map.
func (g *Generator) Capabilities() map[string]bool {
	caps := make(map[string]bool, len(g.available))
	for name, ok := range g.available {
		caps[name] = ok
	}
	return caps
}

// Respond produces exactly one reply for the message. It always returns a
// non-empty string and never fails: backend faults are absorbed into the
// next tier, and the rule-based fallback is total.
func (g *Generator) Respond(ctx context.Context, userMessage string) string {
	if !g.Available() {
		return unavailableReply
	}

	lower := strings.ToLower(userMessage)
	if containsToken(greetingTokens, lower) {
		return greetingReply
	}
	if containsToken(helpTokens, lower) {
		return helpReply
	}

	prompt := providers.Prompt{
		UserMessage:  userMessage,
		SystemPrompt: systemPrompt,
	}

	for _, p := range g.providers {
		if !g.available[p.Name()] {
			continue
		}
		result := p.Generate(ctx, prompt)
		text := strings.TrimSpace(result.Text)
		if result.OK && text != "" {
			return text
		}
		slog.Info("backend produced no result, falling through", "backend", p.Name())
	}

	slog.Info("all backends exhausted, using rule-based fallback")
	return Fallback(userMessage)
}

// containsToken reports whether the lower-cased message equals one of the
// fixed command tokens. Commands are exact matches, unlike the fallback
// responder's substring sets.
func containsToken(tokens []string, lower string) bool {
	for _, t := range tokens {
		if lower == t {
			return true
		}
	}
	return false
}
