// pkg/validate/catalog.go
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BuiltinCatalogs returns the shipped rule catalogs for the three source
// dataset categories. Callers can replace or extend them via LoadCatalogDir.
func BuiltinCatalogs() map[string]*Catalog {
	return map[string]*Catalog{
		"business_licenses": {
			Category: "business_licenses",
			Rules: []Rule{
				{ID: "latitude_in_city_bounds", Columns: []string{"latitude"}, Predicate: PredicateRange,
					Min: floatPtr(41.6), Max: floatPtr(42.1), Severity: SeverityError},
				{ID: "longitude_in_city_bounds", Columns: []string{"longitude"}, Predicate: PredicateRange,
					Min: floatPtr(-87.9), Max: floatPtr(-87.5), Severity: SeverityError},
				{ID: "community_area_valid", Columns: []string{"community_area"}, Predicate: PredicateRange,
					Min: floatPtr(1), Max: floatPtr(77), Severity: SeverityError},
				{ID: "ward_valid", Columns: []string{"ward"}, Predicate: PredicateRange,
					Min: floatPtr(1), Max: floatPtr(50), Severity: SeverityWarning},
				{ID: "license_status_known", Columns: []string{"license_status"}, Predicate: PredicateInSet,
					AllowedValues: []string{"AAI", "AAC", "REV", "REA", "INQ"}, Severity: SeverityWarning},
				{ID: "id_present", Columns: []string{"id"}, Predicate: PredicateNullRateMax,
					MaxNullRate: 0.0, Severity: SeverityCritical},
				{ID: "license_description_present", Columns: []string{"license_description"}, Predicate: PredicateNullRateMax,
					MaxNullRate: 0.05, Severity: SeverityError},
				{ID: "license_dates_ordered", Columns: []string{"license_start_date", "expiration_date"}, Predicate: PredicateOrdering,
					Severity: SeverityError},
			},
		},
		"building_permits": {
			Category: "building_permits",
			Rules: []Rule{
				{ID: "total_fee_non_negative", Columns: []string{"total_fee"}, Predicate: PredicateRange,
					Min: floatPtr(0), Severity: SeverityError},
				{ID: "building_fee_non_negative", Columns: []string{"building_fee_paid"}, Predicate: PredicateRange,
					Min: floatPtr(0), Severity: SeverityWarning},
				{ID: "processing_time_valid", Columns: []string{"processing_time"}, Predicate: PredicateRange,
					Min: floatPtr(0), Max: floatPtr(3650), Severity: SeverityWarning},
				{ID: "community_area_valid", Columns: []string{"community_area"}, Predicate: PredicateRange,
					Min: floatPtr(1), Max: floatPtr(77), Severity: SeverityError},
				{ID: "permit_status_known", Columns: []string{"permit_status"}, Predicate: PredicateInSet,
					AllowedValues: []string{"COMPLETE", "OPEN", "CLOSED", "CANCELLED", "EXPIRED"}, Severity: SeverityWarning},
				{ID: "id_present", Columns: []string{"id"}, Predicate: PredicateNullRateMax,
					MaxNullRate: 0.0, Severity: SeverityCritical},
				{ID: "permit_dates_ordered", Columns: []string{"application_start_date", "issue_date"}, Predicate: PredicateOrdering,
					Severity: SeverityError},
			},
		},
		"cta_boardings": {
			Category: "cta_boardings",
			Rules: []Rule{
				{ID: "total_rides_in_range", Columns: []string{"total_rides"}, Predicate: PredicateRange,
					Min: floatPtr(0), Max: floatPtr(2000000), Severity: SeverityError},
				{ID: "service_date_present", Columns: []string{"service_date"}, Predicate: PredicateNullRateMax,
					MaxNullRate: 0.0, Severity: SeverityCritical},
				{ID: "total_rides_present", Columns: []string{"total_rides"}, Predicate: PredicateNullRateMax,
					MaxNullRate: 0.0, Severity: SeverityError},
			},
		},
	}
}

// LoadCatalogDir reads every *.yaml/*.yml file in dir as a rule catalog and
// returns catalogs keyed by category. Files override builtin catalogs of the
// same category.
func LoadCatalogDir(dir string) (map[string]*Catalog, error) {
	catalogs := BuiltinCatalogs()
	if dir == "" {
		return catalogs, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return catalogs, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
		}
		var catalog Catalog
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}
		if err := catalog.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog %s: %w", name, err)
		}
		catalogs[catalog.Category] = &catalog
	}
	return catalogs, nil
}
