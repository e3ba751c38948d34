package models

// JobPosting is a single entry of the job feed panel.
type JobPosting struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	WorkType string `json:"work_type"`
	Posted   string `json:"posted"`
	URL      string `json:"url"`
}

// SearchLink is a deep link into an external job board.
type SearchLink struct {
	Site    string `json:"site"`
	Label   string `json:"label"`
	Boolean bool   `json:"boolean"`
	Query   string `json:"query"`
	URL     string `json:"url"`
}
