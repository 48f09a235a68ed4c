package learning

const (
	MinRating = 1
	MaxRating = 10
)

type Rating struct {
	Rating  int    `json:"rating" jsonschema:"minimum=1,maximum=10"`
	Insight string `json:"insight"`
}

type ratingWire struct {
	Rating  *int    `json:"rating" validate:"required,min=1,max=10"`
	Insight *string `json:"insight" validate:"required,min=1"`
}

// ParseRating decodes provider text into a Rating on the 1..10 scale.
func ParseRating(text string) (Rating, error) {
	var w ratingWire
	if err := decodeStrict(text, &w); err != nil {
		return Rating{}, err
	}
	return Rating{Rating: *w.Rating, Insight: *w.Insight}, nil
}
