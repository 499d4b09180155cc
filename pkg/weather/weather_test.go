package weather

import (
	"testing"
	"time"
)

func TestNewRepository_SeedsFiveForecasts(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewRepository(now, nil)

	all := repo.GetAll()
	if len(all) != 5 {
		t.Fatalf("weather:weather_test - expected 5 forecasts, got %d", len(all))
	}
	for i, f := range all {
		if f.ID != i+1 {
			t.Errorf("weather:weather_test - forecast %d has id %d", i, f.ID)
		}
		if f.TemperatureC < -20 || f.TemperatureC >= 55 {
			t.Errorf("weather:weather_test - temperature %d out of range", f.TemperatureC)
		}
		if f.TemperatureF != Fahrenheit(f.TemperatureC) {
			t.Errorf("weather:weather_test - TemperatureF = %d, want %d", f.TemperatureF, Fahrenheit(f.TemperatureC))
		}
		if want := now.AddDate(0, 0, i+1); !f.Date.Equal(want) {
			t.Errorf("weather:weather_test - Date = %v, want %v", f.Date, want)
		}
	}
}

func TestFahrenheit(t *testing.T) {
	tests := []struct {
		c, want int
	}{
		{0, 32},
		{100, 211},
		{-20, -3},
		{25, 76},
	}
	for _, tt := range tests {
		if got := Fahrenheit(tt.c); got != tt.want {
			t.Errorf("weather:weather_test - Fahrenheit(%d) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestRepository_CRUDNotifies(t *testing.T) {
	var actions []string
	repo := NewRepository(time.Now(), func(action string, _ Forecast) {
		actions = append(actions, action)
	})

	added := repo.Add(Forecast{TemperatureC: 10, Summary: "Mild"})
	if added.ID != 6 {
		t.Errorf("weather:weather_test - expected id 6, got %d", added.ID)
	}

	if _, ok := repo.Update(Forecast{ID: added.ID, TemperatureC: 30, Summary: "Hot"}); !ok {
		t.Error("weather:weather_test - expected update to succeed")
	}
	got, _ := repo.GetByID(added.ID)
	if got.Summary != "Hot" || got.TemperatureF != Fahrenheit(30) {
		t.Errorf("weather:weather_test - unexpected forecast after update: %+v", got)
	}
	if _, ok := repo.Update(Forecast{ID: 99}); ok {
		t.Error("weather:weather_test - update of unknown id should fail")
	}

	if !repo.Delete(added.ID) {
		t.Error("weather:weather_test - expected delete to succeed")
	}
	if repo.Delete(added.ID) {
		t.Error("weather:weather_test - second delete should report false")
	}

	want := []string{"created", "updated", "deleted"}
	if len(actions) != len(want) {
		t.Fatalf("weather:weather_test - actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("weather:weather_test - actions[%d] = %s, want %s", i, actions[i], want[i])
		}
	}
}
