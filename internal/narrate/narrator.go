// ABOUTME: Program digest writer for the campus growth portal.
// ABOUTME: Asks OpenAI to summarize a snapshot and falls back to a static digest.

package narrate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/2389/campus-portal/internal/portal"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-5-mini"

// Digest sources
const (
	SourceAI     = "ai"
	SourceStatic = "static"
)

// Digest is a short written summary of a snapshot.
type Digest struct {
	Headline   string   `json:"headline"`
	Highlights []string `json:"highlights"`
	Source     string   `json:"source"`
}

// Narrator writes digests using OpenAI or falls back to a static summary.
type Narrator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// NewNarrator creates a narrator. An empty apiKey selects the static digest.
func NewNarrator(apiKey, model string) *Narrator {
	if apiKey == "" {
		log.Println("No OPENAI_API_KEY found, using static digest")
		return &Narrator{model: modelOrDefault(model)}
	}
	return NewNarratorWithClient(openai.NewClient(apiKey), model)
}

// NewNarratorWithClient creates a narrator around an existing OpenAI client.
func NewNarratorWithClient(client *openai.Client, model string) *Narrator {
	n := &Narrator{
		client: client,
		useAI:  client != nil,
		model:  modelOrDefault(model),
	}
	if n.useAI {
		log.Printf("OpenAI client configured, writing digests with model: %s", n.model)
	}
	return n
}

func modelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}

// UsesAI reports whether digests are requested from OpenAI.
func (n *Narrator) UsesAI() bool {
	return n.useAI
}

// Digest summarizes snap. AI failures are logged and answered with the static digest.
func (n *Narrator) Digest(ctx context.Context, snap *portal.Snapshot) *Digest {
	if !n.useAI {
		return StaticDigest(snap)
	}

	d, err := n.generateDigest(ctx, snap)
	if err != nil {
		log.Printf("AI digest failed, falling back to static digest: %v", err)
		return StaticDigest(snap)
	}
	return d
}

// digestFacts is the compact view of a snapshot sent to the model.
type digestFacts struct {
	KPIs     portal.KPIs              `json:"kpis"`
	Campuses []portal.CampusAggregate `json:"campuses"`
	TopReps  []portal.Representative  `json:"top_reps"`
	Funnel   []portal.FunnelStage     `json:"funnel"`
}

type aiDigest struct {
	Headline   string   `json:"headline"`
	Highlights []string `json:"highlights"`
}

func (n *Narrator) generateDigest(ctx context.Context, snap *portal.Snapshot) (*Digest, error) {
	facts, err := json.Marshal(digestFacts{
		KPIs:     snap.KPIs(),
		Campuses: snap.Campuses,
		TopReps:  portal.TopReps(snap.Reps, 5),
		Funnel:   snap.Funnel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal digest facts: %w", err)
	}

	prompt := fmt.Sprintf(`Write a short program update for a campus ambassador program from these 30-day numbers:

%s

Return a JSON object with: headline (one sentence), highlights (array of 3-5 short bullet strings).
Mention the top campus, the fastest growing campus, and one standout rep. Use only the numbers given.`, facts)

	out, err := callOpenAI[aiDigest](ctx, n.client, n.model, prompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Headline) == "" {
		return nil, fmt.Errorf("empty headline in OpenAI response")
	}

	return &Digest{
		Headline:   out.Headline,
		Highlights: out.Highlights,
		Source:     SourceAI,
	}, nil
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a program analyst. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
