// Package agent drives the Gemini chat loop: the model decides when to call
// the shoe-lookup tools, tool results are fed back, and the final reply is
// returned (or streamed) to the caller.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"

	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/tools"
)

// ErrUnavailable reports that the language-model call itself failed. The
// presentation layer turns this into an apology, never a crash.
var ErrUnavailable = errors.New("agent unavailable")

// Conversations are trimmed to this many messages before each turn.
const maxHistoryMessages = 20

const systemPrompt = `You are a running shoe expert assistant. Your job is to help users find
and compare running shoe specifications.

When users ask about shoes, use the available tools to search for accurate specifications:
- Use shoe_specs_search for a single shoe lookup
- Use multi_shoe_search when comparing 2+ shoes (more efficient)
- Answer directly without tools when no specific shoe is named

Key specs to focus on:
- Heel-to-toe drop (mm): The height difference between heel and forefoot
- Stack height (mm): Total cushioning thickness under the heel/forefoot
- Cushioning: Type and level (plush, firm, responsive, etc.)
- Weight: In ounces or grams

When presenting results:
1. Start with a brief overview of each shoe
2. Present key specs clearly (use a table for comparisons)
3. Highlight notable differences when comparing
4. Cite your sources

If a shoe isn't found, suggest similar alternatives or ask for clarification.`

// Agent orchestrates the model and the lookup tools for one conversation
// turn at a time. It holds no per-conversation state; callers own history.
type Agent struct {
	model   *genai.GenerativeModel
	toolset map[string]tools.Tool
}

// New configures the chat model with the tool declarations and system
// prompt. The ai.Client must stay open for the agent's lifetime.
func New(client *ai.Client, toolset []tools.Tool) *Agent {
	model := client.GenerativeModel()
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	var decls []*genai.FunctionDeclaration
	byName := make(map[string]tools.Tool, len(toolset))
	for _, t := range toolset {
		decls = append(decls, t.Declaration())
		byName[t.Name()] = t
	}
	if len(decls) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return &Agent{model: model, toolset: byName}
}

// Run executes one turn and returns the final reply text.
func (a *Agent) Run(ctx context.Context, userInput string, history []*genai.Content) (string, error) {
	cs := a.model.StartChat()
	cs.History = history

	parts := []genai.Part{genai.Text(userInput)}
	for {
		resp, err := cs.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		text, calls := splitParts(resp)
		if len(calls) == 0 {
			return text, nil
		}
		parts = a.executeCalls(ctx, calls)
	}
}

// Stream executes one turn, delivering reply text through onChunk as it
// arrives. Tool calls happen between streamed segments, exactly as in Run.
// The accumulated reply is returned so callers can record history.
func (a *Agent) Stream(ctx context.Context, userInput string, history []*genai.Content, onChunk func(string)) (string, error) {
	cs := a.model.StartChat()
	cs.History = history

	var full strings.Builder
	parts := []genai.Part{genai.Text(userInput)}
	for {
		iter := cs.SendMessageStream(ctx, parts...)

		var calls []genai.FunctionCall
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return full.String(), fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			text, chunkCalls := splitParts(resp)
			if text != "" {
				full.WriteString(text)
				onChunk(text)
			}
			calls = append(calls, chunkCalls...)
		}

		if len(calls) == 0 {
			return full.String(), nil
		}

		notice := "\n\n🔍 Searching for shoe specs...\n\n"
		full.WriteString(notice)
		onChunk(notice)

		parts = a.executeCalls(ctx, calls)
	}
}

// executeCalls runs every requested tool and packages the results as
// function responses for the next model turn. A tool failure becomes an
// error payload the model can explain to the user; it never aborts the turn.
func (a *Agent) executeCalls(ctx context.Context, calls []genai.FunctionCall) []genai.Part {
	parts := make([]genai.Part, 0, len(calls))
	for _, call := range calls {
		var response map[string]any
		if tool, ok := a.toolset[call.Name]; ok {
			result, err := tool.Invoke(ctx, call.Args)
			if err != nil {
				response = map[string]any{"error": err.Error()}
			} else {
				response = result
			}
		} else {
			response = map[string]any{"error": fmt.Sprintf("tool %s not found", call.Name)}
		}
		parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: response})
	}
	return parts
}

func splitParts(resp *genai.GenerateContentResponse) (string, []genai.FunctionCall) {
	var text strings.Builder
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch v := part.(type) {
			case genai.Text:
				text.WriteString(string(v))
			case genai.FunctionCall:
				calls = append(calls, v)
			}
		}
	}
	return text.String(), calls
}

// AppendTurn records a completed user/model exchange, trimming the
// conversation to the most recent messages.
func AppendTurn(history []*genai.Content, userInput, reply string) []*genai.Content {
	history = append(history,
		&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(userInput)}},
		&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(reply)}},
	)
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	return history
}

// Apology is the user-visible message shown when the model call fails.
func Apology(err error) string {
	return fmt.Sprintf("Error: %v\n\nPlease try again or rephrase your question.", err)
}
