// ABOUTME: Movie rows and search results for plot search
// ABOUTME: Row identity is positional; titles are not guaranteed unique
package models

// Movie is one dataset row
type Movie struct {
	Title string `json:"title" yaml:"title"`
	Plot  string `json:"plot" yaml:"plot"`
}

// SearchResult is a ranked match for a query. Index is the row position in
// the dataset and Rank is 1-based.
type SearchResult struct {
	Rank       int     `json:"rank" yaml:"rank"`
	Index      int     `json:"index" yaml:"index"`
	Title      string  `json:"title" yaml:"title"`
	Plot       string  `json:"plot" yaml:"plot"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// Plots returns the plot column in dataset order
func Plots(movies []Movie) []string {
	plots := make([]string, len(movies))
	for i, m := range movies {
		plots[i] = m.Plot
	}
	return plots
}
