package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/morezero/employee-service/pkg/employee"
	"github.com/morezero/employee-service/pkg/jsonpatch"
)

const seedLogPrefix = "db:seed"

// SeedFile is the YAML layout of an employee seed file.
//
//	employees:
//	  - firstName: Ada
//	    lastName: Lovelace
//	    gender: F
//	    birthDate: "1990-01-01"
//	    hireDate: "2020-01-01"
type SeedFile struct {
	Employees []SeedEmployee `yaml:"employees"`
}

// SeedEmployee is one seeded row. Dates are ISO 8601 strings.
type SeedEmployee struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Gender    string `yaml:"gender"`
	BirthDate string `yaml:"birthDate"`
	HireDate  string `yaml:"hireDate"`
}

// LoadSeedFile reads and parses the seed file at path.
func LoadSeedFile(path string) ([]employee.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s - read %s: %w", seedLogPrefix, path, err)
	}
	rows, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("%s - %s: %w", seedLogPrefix, path, err)
	}
	return rows, nil
}

// ParseSeed decodes seed YAML. Every row needs both names and valid dates.
func ParseSeed(data []byte) ([]employee.Employee, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	out := make([]employee.Employee, 0, len(f.Employees))
	for i, s := range f.Employees {
		if strings.TrimSpace(s.FirstName) == "" || strings.TrimSpace(s.LastName) == "" {
			return nil, fmt.Errorf("employee %d: firstName and lastName are required", i)
		}
		birth, err := jsonpatch.ParseDate(s.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("employee %d: invalid birthDate %q", i, s.BirthDate)
		}
		hire, err := jsonpatch.ParseDate(s.HireDate)
		if err != nil {
			return nil, fmt.Errorf("employee %d: invalid hireDate %q", i, s.HireDate)
		}
		out = append(out, employee.Employee{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Gender:    s.Gender,
			BirthDate: birth,
			HireDate:  hire,
		})
	}
	return out, nil
}

// Seed adds rows to store in order and returns how many were stored.
func Seed(ctx context.Context, store employee.Store, rows []employee.Employee) (int, error) {
	for i := range rows {
		e := rows[i]
		if err := store.Add(ctx, &e); err != nil {
			return i, fmt.Errorf("%s - seed employee %d: %w", seedLogPrefix, i, err)
		}
	}
	slog.Info(fmt.Sprintf("%s - Seeded %d employees", seedLogPrefix, len(rows)))
	return len(rows), nil
}
