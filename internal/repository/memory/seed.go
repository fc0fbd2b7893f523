package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
)

// DirectorySeed is the JSON layout of a directory snapshot for the memory driver.
type DirectorySeed struct {
	Workplaces []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"workplaces"`
	Employees []struct {
		ID                 string  `json:"id"`
		FullName           string  `json:"full_name"`
		HomeWorkplaceID    *string `json:"home_workplace_id"`
		IsActive           *bool   `json:"is_active"`
		MonthlyTargetHours *int    `json:"monthly_target_hours"`
	} `json:"employees"`
}

// LoadSeed reads a directory snapshot and loads it into the store.
// Employees default to active.
func (s *Store) LoadSeed(r io.Reader) error {
	var seed DirectorySeed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("failed to decode directory seed: %w", err)
	}

	for _, w := range seed.Workplaces {
		if w.ID == "" {
			return fmt.Errorf("workplace without id in directory seed")
		}
		s.PutWorkplace(workplace.Workplace{ID: w.ID, Name: w.Name})
	}
	for _, e := range seed.Employees {
		if e.ID == "" {
			return fmt.Errorf("employee without id in directory seed")
		}
		active := e.IsActive == nil || *e.IsActive
		s.PutEmployee(employee.Employee{
			ID:                 e.ID,
			FullName:           e.FullName,
			HomeWorkplaceID:    e.HomeWorkplaceID,
			IsActive:           active,
			MonthlyTargetHours: e.MonthlyTargetHours,
			UpdatedAt:          s.now(),
		})
	}
	return nil
}

// LoadSeedFile is LoadSeed for a file path.
func (s *Store) LoadSeedFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open directory seed: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}
