package responder

import (
	"context"
	"testing"

	"github.com/nextlevelbuilder/lineclaw/internal/providers"
)

// fakeProvider is a scripted backend with a call counter.
type fakeProvider struct {
	name       string
	configured bool
	result     providers.Result
	calls      int
}

func (f *fakeProvider) Generate(ctx context.Context, p providers.Prompt) providers.Result {
	f.calls++
	return f.result
}
func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

// TestRespond_NoBackendConfigured verifies that with zero available
// backends every message gets the fixed unavailable reply, the fake
// backends included are never invoked, and not even command tokens
// bypass the check.
func TestRespond_NoBackendConfigured(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: false}
	g := NewGenerator(primary)

	for _, msg := range []string{"hi", "你好", "what is the weather", ""} {
		if got := g.Respond(context.Background(), msg); got != unavailableReply {
			t.Errorf("Respond(%q) = %q, want unavailable reply", msg, got)
		}
	}
	if primary.calls != 0 {
		t.Errorf("unconfigured backend invoked %d times", primary.calls)
	}
}

// TestRespond_GreetingBypassesBackends verifies greeting tokens return the
// fixed greeting reply without touching any backend, no matter which
// backends are configured.
func TestRespond_GreetingBypassesBackends(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.TextReply("model text")}
	g := NewGenerator(primary)

	for _, msg := range []string{"hi", "Hello", "你好", "嗨"} {
		if got := g.Respond(context.Background(), msg); got != greetingReply {
			t.Errorf("Respond(%q) = %q, want greeting reply", msg, got)
		}
	}
	if primary.calls != 0 {
		t.Errorf("backend invoked %d times for greetings", primary.calls)
	}
}

// TestRespond_HelpBypassesBackends verifies help tokens return the fixed
// help menu without invoking backends.
func TestRespond_HelpBypassesBackends(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.TextReply("model text")}
	g := NewGenerator(primary)

	for _, msg := range []string{"help", "HELP", "幫助", "說明"} {
		if got := g.Respond(context.Background(), msg); got != helpReply {
			t.Errorf("Respond(%q) = %q, want help reply", msg, got)
		}
	}
	if primary.calls != 0 {
		t.Errorf("backend invoked %d times for help commands", primary.calls)
	}
}

// TestRespond_GreetingIsExactMatch verifies command tokens are exact
// matches: a sentence merely containing "hi" goes to the backends.
func TestRespond_GreetingIsExactMatch(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.TextReply("model text")}
	g := NewGenerator(primary)

	if got := g.Respond(context.Background(), "hi, what time is it?"); got != "model text" {
		t.Errorf("expected backend reply for non-exact greeting, got %q", got)
	}
	if primary.calls != 1 {
		t.Errorf("expected 1 backend call, got %d", primary.calls)
	}
}

// TestRespond_PriorityOrder verifies that when the primary backend
// succeeds, later backends are never invoked.
func TestRespond_PriorityOrder(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.TextReply("primary wins")}
	secondary := &fakeProvider{name: "gemini", configured: true, result: providers.TextReply("secondary")}
	g := NewGenerator(primary, secondary)

	got := g.Respond(context.Background(), "tell me something")
	if got != "primary wins" {
		t.Errorf("Respond = %q, want primary's text", got)
	}
	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1", primary.calls)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

// TestRespond_FallsThroughToNextBackend verifies a NoResult from the
// primary advances to the secondary, whose text is returned trimmed.
func TestRespond_FallsThroughToNextBackend(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.NoResult}
	secondary := &fakeProvider{name: "gemini", configured: true, result: providers.TextReply("  secondary text \n")}
	g := NewGenerator(primary, secondary)

	got := g.Respond(context.Background(), "tell me something")
	if got != "secondary text" {
		t.Errorf("Respond = %q, want trimmed secondary text", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("call counts primary=%d secondary=%d, want 1/1", primary.calls, secondary.calls)
	}
}

// TestRespond_SkipsUnconfiguredBackends verifies the chain skips disabled
// backends entirely.
func TestRespond_SkipsUnconfiguredBackends(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: false, result: providers.TextReply("should not appear")}
	secondary := &fakeProvider{name: "gemini", configured: true, result: providers.TextReply("from secondary")}
	g := NewGenerator(primary, secondary)

	if got := g.Respond(context.Background(), "question"); got != "from secondary" {
		t.Errorf("Respond = %q, want secondary's text", got)
	}
	if primary.calls != 0 {
		t.Errorf("unconfigured primary invoked %d times", primary.calls)
	}
}

// TestRespond_EmptyTextCountsAsNoResult verifies a whitespace-only reply
// from a backend is treated as no result.
func TestRespond_EmptyTextCountsAsNoResult(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.TextReply("   ")}
	secondary := &fakeProvider{name: "gemini", configured: true, result: providers.TextReply("real text")}
	g := NewGenerator(primary, secondary)

	if got := g.Respond(context.Background(), "question"); got != "real text" {
		t.Errorf("Respond = %q, want secondary's text", got)
	}
}

// TestRespond_AllBackendsExhausted verifies the result equals the
// rule-based fallback output when every backend returns NoResult.
func TestRespond_AllBackendsExhausted(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true, result: providers.NoResult}
	secondary := &fakeProvider{name: "gemini", configured: true, result: providers.NoResult}
	g := NewGenerator(primary, secondary)

	msg := "今天天氣如何"
	got := g.Respond(context.Background(), msg)
	if want := Fallback(msg); got != want {
		t.Errorf("Respond = %q, want fallback output %q", got, want)
	}
}

// TestRespond_NeverEmpty verifies the non-empty guarantee across a spread
// of inputs and configurations.
func TestRespond_NeverEmpty(t *testing.T) {
	configs := []*Generator{
		NewGenerator(),
		NewGenerator(&fakeProvider{name: "openai", configured: false}),
		NewGenerator(&fakeProvider{name: "openai", configured: true, result: providers.NoResult}),
		NewGenerator(&fakeProvider{name: "openai", configured: true, result: providers.TextReply("x")}),
	}
	inputs := []string{"", "hi", "help", "謝謝", "random question", "   "}
	for _, g := range configs {
		for _, msg := range inputs {
			if g.Respond(context.Background(), msg) == "" {
				t.Errorf("Respond(%q) returned empty string", msg)
			}
		}
	}
}

// TestCapabilities verifies the capability set reflects each backend's
// configured state and is computed once at construction.
func TestCapabilities(t *testing.T) {
	primary := &fakeProvider{name: "openai", configured: true}
	secondary := &fakeProvider{name: "gemini", configured: false}
	g := NewGenerator(primary, secondary)

	caps := g.Capabilities()
	if !caps["openai"] || caps["gemini"] {
		t.Errorf("capability set = %v, want openai=true gemini=false", caps)
	}

	// Flipping the provider after construction must not change the set.
	secondary.configured = true
	if g.Capabilities()["gemini"] {
		t.Error("capability set recomputed after construction")
	}
}
