package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/ai"
	"github.com/inkboard/inkboard/internal/interpret"
	"github.com/inkboard/inkboard/internal/model"
)

// maxPromptObjects caps how many objects are summarized for the model; a
// busy board would otherwise blow the prompt out.
const maxPromptObjects = 10

// SuggestResult is what the AI endpoint answers with: either structured
// shape-creation commands or a list of improvement suggestions, never both.
type SuggestResult struct {
	Commands    []model.ShapeCommand `json:"commands,omitempty"`
	Suggestions []model.Suggestion   `json:"suggestions,omitempty"`
}

type AIService struct {
	provider ai.IProvider
	model    string
	timeout  time.Duration
	cache    *expirable.LRU[string, string]
}

func NewAIService(provider ai.IProvider, modelName string, timeout time.Duration) *AIService {
	return &AIService{
		provider: provider,
		model:    modelName,
		timeout:  timeout,
		cache:    expirable.NewLRU[string, string](1024, nil, 2*time.Hour),
	}
}

// Suggest runs the rule-based interpreter first; only prompts it cannot
// recognize reach the model. Provider failures and malformed responses both
// degrade to the canned fallback suggestions, never to an error the caller
// would have to surface.
func (s *AIService) Suggest(ctx context.Context, objects []model.BoardObject, userPrompt string) (*SuggestResult, error) {
	if userPrompt != "" {
		if cmd := interpret.Interpret(userPrompt, objects); cmd != nil {
			cmd.Action = model.ActionCreateShape
			return &SuggestResult{Commands: []model.ShapeCommand{*cmd}}, nil
		}
	}
	raw, err := s.generate(ctx, buildPrompt(objects, userPrompt))
	if err != nil {
		logutil.GetLogger(ctx).Warn("ai generate failed, using fallback suggestions", zap.Error(err))
		return &SuggestResult{Suggestions: fallbackSuggestions()}, nil
	}
	result, err := parseResponse(raw)
	if err != nil {
		logutil.GetLogger(ctx).Warn("ai response unparsable, using fallback suggestions", zap.Error(err))
		return &SuggestResult{Suggestions: fallbackSuggestions()}, nil
	}
	return result, nil
}

func (s *AIService) generate(ctx context.Context, prompt string) (string, error) {
	if s.provider == nil {
		return "", ai.ErrUnavailable
	}
	sum := sha256.Sum256([]byte(prompt))
	key := hex.EncodeToString(sum[:])
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	raw, err := s.provider.Generate(ctx, s.model, prompt)
	if err != nil {
		return "", err
	}
	s.cache.Add(key, raw)
	return raw, nil
}

func buildPrompt(objects []model.BoardObject, userPrompt string) string {
	var summary strings.Builder
	fmt.Fprintf(&summary, "Board contains %d objects:\n", len(objects))
	for i, obj := range objects {
		if i >= maxPromptObjects {
			break
		}
		data, _ := json.Marshal(obj.Data)
		fmt.Fprintf(&summary, "- %s: %s\n", obj.Kind, data)
	}
	var request string
	if userPrompt != "" {
		request = fmt.Sprintf("\nUser prompt:\n%s\n", userPrompt)
	}
	return fmt.Sprintf(`You are an AI assistant for a collaborative whiteboard. Analyze the following drawing objects and user request.

%s%s
TASK:
If the user requests to CREATE shapes (e.g., "make a triangle", "draw 3 circles below", "add square"), return a JSON array of shape creation commands.
Otherwise, provide 2-3 actionable suggestions to improve the diagram.

For shape creation, return format:
[{"action": "create_shape", "shape_type": "triangle|circle|rectangle|arrow|text", "quantity": 1, "position": "center|below|above|left|right", "reference": "triangle|circle|rectangle|last", "text_content": "..."}]

For suggestions, return format:
[{"type": "shape_clean|annotation|diagram_improvement", "title": "short title (max 40 chars)", "description": "detailed explanation (max 150 chars)"}]

CRITICAL:
- Detect CREATE requests vs IMPROVEMENT suggestions
- For "make X", "draw X", "add X", "create X" use action: create_shape
- Support quantities: "three circles" means quantity: 3
- Support positions: "below the triangle" means position: below, reference: triangle
- Return ONLY valid JSON (no markdown fences)`, summary.String(), request)
}

// parseResponse distinguishes command arrays from suggestion arrays by the
// action field on the first element.
func parseResponse(raw string) (*SuggestResult, error) {
	raw = stripFences(raw)
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, err
	}
	if len(probe) == 0 {
		return &SuggestResult{}, nil
	}
	if _, isCommand := probe[0]["action"]; isCommand {
		var commands []model.ShapeCommand
		if err := json.Unmarshal([]byte(raw), &commands); err != nil {
			return nil, err
		}
		kept := commands[:0]
		for _, cmd := range commands {
			if cmd.Action != model.ActionCreateShape || cmd.ShapeType == "" {
				continue
			}
			if cmd.Quantity < 1 {
				cmd.Quantity = 1
			}
			if cmd.Position == "" {
				cmd.Position = model.PositionCenter
			}
			kept = append(kept, cmd)
		}
		return &SuggestResult{Commands: kept}, nil
	}
	var suggestions []model.Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		return nil, err
	}
	for i := range suggestions {
		if suggestions[i].ID == "" {
			suggestions[i].ID = newID()
		}
	}
	return &SuggestResult{Suggestions: suggestions}, nil
}

// stripFences tolerates models that wrap JSON in markdown fences anyway.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	return strings.TrimSpace(raw)
}

func fallbackSuggestions() []model.Suggestion {
	return []model.Suggestion{
		{
			ID:          newID(),
			Type:        model.SuggestionShapeClean,
			Title:       "Clean up shapes",
			Description: "Use the shape tools to create perfect geometric forms",
		},
		{
			ID:          newID(),
			Type:        model.SuggestionAnnotation,
			Title:       "Add labels",
			Description: "Label important elements for better understanding",
		},
	}
}
