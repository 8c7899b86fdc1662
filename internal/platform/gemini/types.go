package gemini

import (
	"google.golang.org/genai"

	"github.com/veladora/arcana-api/internal/spread"
)

// readingSchema constrains the model output to the reading wire shape.
// Schema-guided decoding cannot enforce the exact card count, so the full
// shape validation still runs on every response.
var readingSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"interpretation": {Type: genai.TypeString},
		"cards": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":       {Type: genai.TypeString},
					"position":   {Type: genai.TypeString},
					"isReversed": {Type: genai.TypeBoolean},
				},
				Required: []string{"name", "position", "isReversed"},
			},
		},
	},
	Required: []string{"interpretation", "cards"},
}

// promptData contains the data passed to the prompt template.
type promptData struct {
	// Query is the querent's question, verbatim.
	Query string

	// CardCount is the exact number of cards the model must draw.
	CardCount int

	// SpreadName is the display name of the selected spread.
	SpreadName string

	// Positions is the ordered spread layout the model must fill.
	Positions []spread.Position
}
