// ABOUTME: Scenario data for retrieval benchmarks
// ABOUTME: A small built-in corpus with queries and the titles they should surface

package retrieval

import "github.com/harper/plotsearch/internal/models"

// Scenario is one query with the titles expected in its top K results
type Scenario struct {
	ID       string
	Name     string
	Query    string
	Expected []string
	K        int
}

// Result is the outcome of one scenario
type Result struct {
	ScenarioID     string                 `json:"scenario_id"`
	ScenarioName   string                 `json:"scenario_name"`
	Query          string                 `json:"query"`
	HitAtK         float64                `json:"hit_at_k"`
	RecallAtK      float64                `json:"recall_at_k"`
	ReciprocalRank float64                `json:"reciprocal_rank"`
	Status         string                 `json:"status"` // "PASS" or "FAIL"
	Retrieved      []string               `json:"retrieved"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

// Corpus is the built-in dataset used when no dataset path is given
func Corpus() []models.Movie {
	return []models.Movie{
		{Title: "Spy Movie", Plot: "A spy navigates intrigue in Paris to stop a terrorist plot."},
		{Title: "Romance in Paris", Plot: "A couple falls in love in Paris under romantic circumstances."},
		{Title: "Action Flick", Plot: "A high-octane chase through New York with explosions."},
		{Title: "Deep Space", Plot: "Astronauts aboard a failing space station fight to return to Earth."},
		{Title: "The Heist", Plot: "A crew of thieves plans a bank heist during a blizzard."},
		{Title: "Haunted Manor", Plot: "A family moves into a manor haunted by a vengeful ghost."},
		{Title: "Robot Heart", Plot: "A lonely robot learns to love while repairing an abandoned city."},
		{Title: "Courtroom", Plot: "A young lawyer defends a man accused of murder in a small town trial."},
		{Title: "Desert Run", Plot: "Smugglers race across the desert pursued by a relentless sheriff."},
		{Title: "Kitchen Wars", Plot: "Rival chefs compete in a cooking contest that turns into a feud."},
	}
}

// GetAllScenarios returns the built-in scenarios
func GetAllScenarios() []Scenario {
	return []Scenario{
		{ID: "spy", Name: "Spy thriller", Query: "spy thriller in Paris", Expected: []string{"Spy Movie"}, K: 1},
		{ID: "space", Name: "Space survival", Query: "astronauts stranded on a space station", Expected: []string{"Deep Space"}, K: 1},
		{ID: "heist", Name: "Bank robbery", Query: "thieves rob a bank", Expected: []string{"The Heist"}, K: 3},
		{ID: "ghost", Name: "Ghost story", Query: "ghost haunts a family", Expected: []string{"Haunted Manor"}, K: 3},
		{ID: "paris", Name: "Set in Paris", Query: "Paris", Expected: []string{"Spy Movie", "Romance in Paris"}, K: 2},
		{ID: "trial", Name: "Legal drama", Query: "lawyer murder trial", Expected: []string{"Courtroom"}, K: 3},
	}
}

// GetScenario returns the scenario with the given ID
func GetScenario(id string) (Scenario, bool) {
	for _, s := range GetAllScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
