package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/ollama"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/apierr"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/promptstyle"
	"github.com/daleyoon76/saas-idea-generator/internal/prompts"
)

const (
	DefaultIdeaCount = 5
	MaxIdeaCount     = 10
)

var ErrBadModelOutput = apierr.New(http.StatusBadGateway, "ollama_bad_response", errors.New("model returned no usable ideas"))

type GenerateIdeasInput struct {
	Keyword     string
	Preset      string
	Count       int
	UseResearch bool
}

type GeneratedIdeas struct {
	Keyword  string          `json:"keyword"`
	Preset   string          `json:"preset,omitempty"`
	Ideas    []LocalIdea     `json:"ideas"`
	Model    string          `json:"model"`
	Research *ResearchResult `json:"research,omitempty"`
}

type GenerateDocInput struct {
	Idea        LocalIdea
	Keyword     string
	Preset      string
	Plan        string
	UseResearch bool
}

type GeneratedDoc struct {
	Content  string `json:"content"`
	IdeaName string `json:"ideaName"`
	Model    string `json:"model"`
}

type ProviderStatus struct {
	Provider  string   `json:"provider"`
	Reachable bool     `json:"reachable"`
	Model     string   `json:"model"`
	HasModel  bool     `json:"hasModel"`
	Models    []string `json:"models"`
	Error     string   `json:"error,omitempty"`
	LatencyMS int64    `json:"latencyMs"`
}

type GenerationService interface {
	GenerateIdeas(ctx context.Context, in GenerateIdeasInput) (*GeneratedIdeas, error)
	GeneratePlan(ctx context.Context, in GenerateDocInput) (*GeneratedDoc, error)
	GeneratePRD(ctx context.Context, in GenerateDocInput) (*GeneratedDoc, error)
	OllamaStatus(ctx context.Context) *ProviderStatus
}

type generationService struct {
	log      *logger.Logger
	llm      ollama.Client
	prompts  *prompts.Catalog
	research ResearchService
}

// NewGenerationService wires the model client. research may be nil, in which
// case UseResearch is ignored.
func NewGenerationService(baseLog *logger.Logger, llm ollama.Client, catalog *prompts.Catalog, research ResearchService) GenerationService {
	return &generationService{
		log:      baseLog.With("service", "GenerationService"),
		llm:      llm,
		prompts:  catalog,
		research: research,
	}
}

func (gs *generationService) researchNotes(ctx context.Context, keyword string) (*ResearchResult, string) {
	if gs.research == nil || strings.TrimSpace(keyword) == "" {
		return nil, ""
	}
	res, err := gs.research.Research(ctx, keyword)
	if err != nil {
		gs.log.Warn("Generating without research", "keyword", keyword, "error", err)
		return nil, ""
	}
	return res, res.Notes()
}

func (gs *generationService) GenerateIdeas(ctx context.Context, in GenerateIdeasInput) (*GeneratedIdeas, error) {
	in.Keyword = strings.TrimSpace(in.Keyword)
	in.Preset = strings.TrimSpace(in.Preset)
	if in.Keyword == "" {
		return nil, ErrKeywordRequired
	}
	if in.Count <= 0 {
		in.Count = DefaultIdeaCount
	}
	if in.Count > MaxIdeaCount {
		in.Count = MaxIdeaCount
	}

	out := &GeneratedIdeas{Keyword: in.Keyword, Preset: in.Preset}
	var notes string
	if in.UseResearch {
		out.Research, notes = gs.researchNotes(ctx, in.Keyword)
	}

	resp, err := gs.complete(ctx, prompts.Ideas, prompts.Data{
		Keyword:  in.Keyword,
		Preset:   in.Preset,
		Count:    in.Count,
		Research: notes,
	})
	if err != nil {
		return nil, err
	}
	ideas, err := ParseIdeas(resp.Response, in.Count)
	if err != nil {
		gs.log.Warn("Unusable idea output", "model", resp.Model, "error", err)
		return nil, ErrBadModelOutput
	}
	out.Ideas = ideas
	out.Model = resp.Model
	return out, nil
}

func (gs *generationService) GeneratePlan(ctx context.Context, in GenerateDocInput) (*GeneratedDoc, error) {
	return gs.generateDoc(ctx, prompts.Plan, in)
}

func (gs *generationService) GeneratePRD(ctx context.Context, in GenerateDocInput) (*GeneratedDoc, error) {
	return gs.generateDoc(ctx, prompts.PRD, in)
}

func (gs *generationService) generateDoc(ctx context.Context, name string, in GenerateDocInput) (*GeneratedDoc, error) {
	in.Idea.Name = strings.TrimSpace(in.Idea.Name)
	if in.Idea.Name == "" {
		return nil, ErrIdeaNameRequired
	}
	data := prompts.Data{
		Keyword: strings.TrimSpace(in.Keyword),
		Preset:  strings.TrimSpace(in.Preset),
		Plan:    strings.TrimSpace(in.Plan),
		Idea:    prompts.IdeaData{Name: in.Idea.Name, Description: strings.TrimSpace(in.Idea.Description)},
	}
	if in.UseResearch {
		_, data.Research = gs.researchNotes(ctx, data.Keyword)
	}
	resp, err := gs.complete(ctx, name, data)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(stripFence(resp.Response))
	if content == "" {
		return nil, apierr.New(http.StatusBadGateway, "ollama_bad_response", errors.New("model returned an empty document"))
	}
	return &GeneratedDoc{Content: content, IdeaName: in.Idea.Name, Model: resp.Model}, nil
}

func (gs *generationService) complete(ctx context.Context, name string, data prompts.Data) (*ollama.GenerateResponse, error) {
	rendered, err := gs.prompts.Render(name, data)
	if err != nil {
		return nil, err
	}
	req := ollama.GenerateRequest{
		Prompt: rendered.User,
		System: rendered.System,
	}
	if rendered.Mode == promptstyle.ModeJSON {
		req.Format = "json"
	}
	start := time.Now()
	resp, err := gs.llm.Generate(ctx, req)
	if err != nil {
		return nil, upstreamError(ollama.Provider, err)
	}
	gs.log.Debug("Generated", "prompt", name, "model", resp.Model, "duration_ms", time.Since(start).Milliseconds(), "eval_count", resp.EvalCount)
	return resp, nil
}

func (gs *generationService) OllamaStatus(ctx context.Context) *ProviderStatus {
	st := &ProviderStatus{Provider: ollama.Provider, Model: gs.llm.DefaultModel(), Models: []string{}}
	start := time.Now()
	if err := gs.llm.Ping(ctx); err != nil {
		st.Error = err.Error()
		st.LatencyMS = time.Since(start).Milliseconds()
		return st
	}
	st.Reachable = true
	st.LatencyMS = time.Since(start).Milliseconds()
	models, err := gs.llm.Tags(ctx)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	for _, m := range models {
		st.Models = append(st.Models, m.Name)
		if m.Name == st.Model || strings.TrimSuffix(m.Name, ":latest") == st.Model {
			st.HasModel = true
		}
	}
	return st
}

// ParseIdeas reads {"ideas":[...]} out of a model answer. Ids that are
// missing, repeated or not integers are renumbered 1..n; at most limit
// ideas are kept.
func ParseIdeas(raw string, limit int) ([]LocalIdea, error) {
	body := stripFence(raw)
	if i, j := strings.Index(body, "{"), strings.LastIndex(body, "}"); i >= 0 && j > i {
		body = body[i : j+1]
	}
	var parsed struct {
		Ideas []struct {
			ID          json.RawMessage `json:"id"`
			Name        string          `json:"name"`
			Title       string          `json:"title"`
			Description string          `json:"description"`
		} `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("decode ideas: %w", err)
	}

	out := make([]LocalIdea, 0, len(parsed.Ideas))
	seen := map[int64]bool{}
	renumber := false
	for _, p := range parsed.Ideas {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = strings.TrimSpace(p.Title)
		}
		if name == "" {
			continue
		}
		id, ok := ideaID(p.ID)
		if !ok || seen[id] {
			renumber = true
		}
		seen[id] = true
		out = append(out, LocalIdea{ID: id, Name: name, Description: strings.TrimSpace(p.Description)})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no ideas in output")
	}
	if renumber {
		for i := range out {
			out[i].ID = int64(i + 1)
		}
	}
	return out, nil
}

// ideaID accepts a positive integer id, bare or quoted.
func ideaID(raw json.RawMessage) (int64, bool) {
	v := strings.TrimSpace(string(raw))
	if unq, err := strconv.Unquote(v); err == nil {
		v = strings.TrimSpace(unq)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
