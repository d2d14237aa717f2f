package model

type SuggestionType string

const (
	SuggestionShapeClean         SuggestionType = "shape_clean"
	SuggestionAnnotation         SuggestionType = "annotation"
	SuggestionDiagramImprovement SuggestionType = "diagram_improvement"
)

// Suggestion is an opaque improvement record produced by the AI collaborator.
type Suggestion struct {
	ID          string         `json:"id"`
	Type        SuggestionType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
}

type CommandPosition string

const (
	PositionCenter CommandPosition = "center"
	PositionAbove  CommandPosition = "above"
	PositionBelow  CommandPosition = "below"
	PositionLeft   CommandPosition = "left"
	PositionRight  CommandPosition = "right"
)

// ShapeCommand is the normalized output of the command interpreter (or of the
// AI fallback when it answers with create_shape actions).
type ShapeCommand struct {
	Action      string          `json:"action,omitempty"`
	ShapeType   string          `json:"shape_type"`
	Quantity    int             `json:"quantity"`
	Position    CommandPosition `json:"position"`
	Reference   string          `json:"reference,omitempty"`
	TextContent string          `json:"text_content,omitempty"`
}

const ActionCreateShape = "create_shape"
