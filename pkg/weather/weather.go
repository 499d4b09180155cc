// Package weather is an in-memory forecast read model.
package weather

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"
)

// Summaries are the forecast descriptions picked at random.
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

const (
	minTempC     = -20
	maxTempC     = 55 // exclusive
	seedForecast = 5
)

// Forecast is one day's forecast.
type Forecast struct {
	ID           int       `json:"id"`
	Date         time.Time `json:"date"`
	TemperatureC int       `json:"temperatureC"`
	TemperatureF int       `json:"temperatureF"`
	Summary      string    `json:"summary"`
}

// Fahrenheit converts a Celsius reading, truncating toward zero.
func Fahrenheit(c int) int {
	return 32 + int(float64(c)/0.5556)
}

// ChangeFunc observes every write.
type ChangeFunc func(action string, f Forecast)

// Repository holds forecasts in memory.
type Repository struct {
	mu        sync.RWMutex
	nextID    int
	forecasts map[int]Forecast
	onChange  ChangeFunc
}

// NewRepository creates a Repository seeded with five random forecasts for
// the days following now.
func NewRepository(now time.Time, onChange ChangeFunc) *Repository {
	r := &Repository{nextID: 1, forecasts: make(map[int]Forecast), onChange: onChange}
	for i := 1; i <= seedForecast; i++ {
		f := Random(0, now.AddDate(0, 0, i))
		f.ID = r.nextID
		r.nextID++
		r.forecasts[f.ID] = f
	}
	return r
}

// Random builds a forecast with a random temperature and summary.
func Random(id int, date time.Time) Forecast {
	c := minTempC + rand.IntN(maxTempC-minTempC)
	return Forecast{
		ID:           id,
		Date:         date,
		TemperatureC: c,
		TemperatureF: Fahrenheit(c),
		Summary:      Summaries[rand.IntN(len(Summaries))],
	}
}

// GetAll returns every forecast ordered by id.
func (r *Repository) GetAll() []Forecast {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Forecast, 0, len(r.forecasts))
	for _, f := range r.forecasts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetByID returns the forecast and whether it exists.
func (r *Repository) GetByID(id int) (Forecast, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.forecasts[id]
	return f, ok
}

// Add stores f under a new id.
func (r *Repository) Add(f Forecast) Forecast {
	r.mu.Lock()
	f.ID = r.nextID
	r.nextID++
	f.TemperatureF = Fahrenheit(f.TemperatureC)
	r.forecasts[f.ID] = f
	r.mu.Unlock()

	r.notify("created", f)
	return f
}

// Update replaces the date, temperature and summary of an existing forecast.
func (r *Repository) Update(f Forecast) (Forecast, bool) {
	r.mu.Lock()
	existing, ok := r.forecasts[f.ID]
	if !ok {
		r.mu.Unlock()
		return Forecast{}, false
	}
	existing.Date = f.Date
	existing.TemperatureC = f.TemperatureC
	existing.TemperatureF = Fahrenheit(f.TemperatureC)
	existing.Summary = f.Summary
	r.forecasts[f.ID] = existing
	r.mu.Unlock()

	r.notify("updated", existing)
	return existing, true
}

// Delete removes a forecast and reports whether it existed.
func (r *Repository) Delete(id int) bool {
	r.mu.Lock()
	f, ok := r.forecasts[id]
	delete(r.forecasts, id)
	r.mu.Unlock()

	if ok {
		r.notify("deleted", f)
	}
	return ok
}

func (r *Repository) notify(action string, f Forecast) {
	if r.onChange != nil {
		r.onChange(action, f)
	}
}
