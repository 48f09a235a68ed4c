package learning

// Course is one learning resource inside a roadmap. Every field is required.
type Course struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Difficulty  string   `json:"difficulty"`
	Topics      []string `json:"topics"`
	IsFree      bool     `json:"is_free"`
	Duration    int      `json:"duration" jsonschema:"minimum=0"` // minutes
	Language    string   `json:"language"`
}

type Roadmap struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Courses     []Course `json:"courses"`
	Topics      []string `json:"topics"`
	Difficulty  string   `json:"difficulty"`
}

// Wire shapes used only while checking provider output. Pointers and slices
// let "present but zero" be told apart from "missing".
type courseWire struct {
	Title       *string  `json:"title" validate:"required"`
	URL         *string  `json:"url" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Source      *string  `json:"source" validate:"required"`
	Difficulty  *string  `json:"difficulty" validate:"required"`
	Topics      []string `json:"topics" validate:"required"`
	IsFree      *bool    `json:"is_free" validate:"required"`
	Duration    *int     `json:"duration" validate:"required,gte=0"`
	Language    *string  `json:"language" validate:"required"`
}

type roadmapWire struct {
	Title       *string      `json:"title" validate:"required"`
	Description *string      `json:"description" validate:"required"`
	Courses     []courseWire `json:"courses" validate:"required,dive"`
	Topics      []string     `json:"topics" validate:"required"`
	Difficulty  *string      `json:"difficulty" validate:"required"`
}

func (w roadmapWire) roadmap() Roadmap {
	r := Roadmap{
		Title:       *w.Title,
		Description: *w.Description,
		Courses:     make([]Course, 0, len(w.Courses)),
		Topics:      w.Topics,
		Difficulty:  *w.Difficulty,
	}
	for _, c := range w.Courses {
		r.Courses = append(r.Courses, Course{
			Title:       *c.Title,
			URL:         *c.URL,
			Description: *c.Description,
			Source:      *c.Source,
			Difficulty:  *c.Difficulty,
			Topics:      c.Topics,
			IsFree:      *c.IsFree,
			Duration:    *c.Duration,
			Language:    *c.Language,
		})
	}
	return r
}

// ParseRoadmap decodes provider text into a Roadmap, rejecting unknown
// fields, missing fields and negative durations.
func ParseRoadmap(text string) (Roadmap, error) {
	var w roadmapWire
	if err := decodeStrict(text, &w); err != nil {
		return Roadmap{}, err
	}
	return w.roadmap(), nil
}
