package models

// CourseListing is a read-only course recommendation.
type CourseListing struct {
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Level    string `json:"level"`
	Duration string `json:"duration"`
	Image    string `json:"image"`
	URL      string `json:"url"`
}

// WithDefaults fills the fields the course export leaves blank.
func (c CourseListing) WithDefaults() CourseListing {
	if c.Title == "" {
		c.Title = "Unknown"
	}
	if c.Provider == "" {
		c.Provider = "Maxy Academy"
	}
	if c.Level == "" {
		c.Level = "All Levels"
	}
	if c.Duration == "" {
		c.Duration = "Self-paced"
	}
	if c.Image == "" {
		c.Image = "https://placehold.co/600x400/orange/white?text=Maxy+Course"
	}
	if c.URL == "" {
		c.URL = "#"
	}
	return c
}
