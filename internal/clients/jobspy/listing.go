package jobspy

// Listing is the wire shape of a single job posting returned by the scrape
// service. Salary bounds are absent when the board did not publish them.
type Listing struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	URL         string   `json:"job_url"`
	Description string   `json:"description"`
	MinAmount   *float64 `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount"`
	Interval    string   `json:"interval"`
	Site        string   `json:"site"`
}
