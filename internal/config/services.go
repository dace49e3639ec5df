package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nextup/campus-queue/internal/model"
)

// defaultServices is the built-in campus office catalog: the six
// services, their ticket code prefixes and average handling minutes.
// Used whenever no SERVICES_FILE override is configured.
var defaultServices = []model.Service{
	{ID: "cashier", DisplayName: "Cashier's Office", CodePrefix: "C", EstimatedMinutes: 5},
	{ID: "registrar", DisplayName: "Registrar's Office", CodePrefix: "R", EstimatedMinutes: 15},
	{ID: "guidance", DisplayName: "Guidance Office", CodePrefix: "G", EstimatedMinutes: 20},
	{ID: "library", DisplayName: "Library", CodePrefix: "L", EstimatedMinutes: 10},
	{ID: "clinic", DisplayName: "Clinic", CodePrefix: "CL", EstimatedMinutes: 15},
	{ID: "it_office", DisplayName: "IT Office", CodePrefix: "IT", EstimatedMinutes: 15},
}

// LoadServices builds the immutable service catalog, keyed by service
// id. When path is empty the built-in defaults are used; otherwise the
// file must hold a JSON array of service objects. The catalog is loaded
// once at startup and never mutated at runtime.
func LoadServices(path string) (map[string]model.Service, error) {
	services := defaultServices
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read services file: %w", err)
		}
		services = nil
		if err := json.Unmarshal(data, &services); err != nil {
			return nil, fmt.Errorf("parse services file: %w", err)
		}
	}
	catalog := make(map[string]model.Service, len(services))
	for _, svc := range services {
		if svc.ID == "" || svc.DisplayName == "" || svc.CodePrefix == "" {
			return nil, fmt.Errorf("service entry %+v: id, display_name and code_prefix are required", svc)
		}
		if svc.EstimatedMinutes <= 0 {
			return nil, fmt.Errorf("service %s: estimated_minutes must be positive", svc.ID)
		}
		if _, dup := catalog[svc.ID]; dup {
			return nil, fmt.Errorf("service %s: duplicate id", svc.ID)
		}
		catalog[svc.ID] = svc
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("service catalog is empty")
	}
	return catalog, nil
}
