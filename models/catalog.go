package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServiceSpec describes one bookable service. Immutable after load.
type ServiceSpec struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           int    `json:"price"`
}

// StaffSpec describes one staff member. Immutable after load.
type StaffSpec struct {
	Name       string `json:"name"`
	Specialty  string `json:"specialty"`
	Experience string `json:"experience"`
}

// Catalog is the fixed service/staff catalog, loaded once at process start
// and passed explicitly into the validator and conversation engine. Order is
// significant: substring resolution takes the first entry in enumeration
// order on a tie.
type Catalog struct {
	Services []ServiceSpec `json:"services"`
	Staff    []StaffSpec   `json:"staff"`
}

// DefaultCatalog returns the built-in salon catalog, used when no catalog
// file is configured.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Services: []ServiceSpec{
			{Name: "カット", DurationMinutes: 60, Price: 3000},
			{Name: "カラー", DurationMinutes: 120, Price: 8000},
			{Name: "パーマ", DurationMinutes: 150, Price: 12000},
			{Name: "トリートメント", DurationMinutes: 90, Price: 5000},
		},
		Staff: []StaffSpec{
			{Name: "田中", Specialty: "カット・カラー", Experience: "5年"},
			{Name: "佐藤", Specialty: "パーマ・トリートメント", Experience: "3年"},
			{Name: "山田", Specialty: "カット・カラー・パーマ", Experience: "8年"},
			{Name: "未指定", Specialty: "全般", Experience: "担当者決定"},
		},
	}
}

// LoadCatalog reads a catalog file, falling back to the built-in catalog when
// the path is empty or missing. Catalog edits require a restart.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	if len(c.Services) == 0 || len(c.Staff) == 0 {
		return nil, fmt.Errorf("catalog file %s has an empty service or staff list", path)
	}
	return &c, nil
}

// Service looks up a service by exact name.
func (c *Catalog) Service(name string) (ServiceSpec, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return ServiceSpec{}, false
}

// StaffMember looks up a staff member by exact name.
func (c *Catalog) StaffMember(name string) (StaffSpec, bool) {
	for _, s := range c.Staff {
		if s.Name == name {
			return s, true
		}
	}
	return StaffSpec{}, false
}

// ServiceNames returns service names in catalog order.
func (c *Catalog) ServiceNames() []string {
	names := make([]string, len(c.Services))
	for i, s := range c.Services {
		names[i] = s.Name
	}
	return names
}

// StaffNames returns staff names in catalog order.
func (c *Catalog) StaffNames() []string {
	names := make([]string, len(c.Staff))
	for i, s := range c.Staff {
		names[i] = s.Name
	}
	return names
}
