package factory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/warp/hours-engine/generic"
	"gopkg.in/yaml.v3"
)

// HolidayYAML is one entry of a holiday seed file:
//
//	holidays:
//	  - date: 2025-04-21
//	    name: Tiradentes
//	    recurring: true
//	  - date: 2025-03-04
//	    name: Carnaval
//	    company_id: acme
type HolidayYAML struct {
	Date      string `yaml:"date"`
	Name      string `yaml:"name"`
	CompanyID string `yaml:"company_id,omitempty"`
	Recurring bool   `yaml:"recurring,omitempty"`
}

type holidayFile struct {
	Holidays []HolidayYAML `yaml:"holidays"`
}

// ParseHolidaysYAML parses a holiday seed file. Every entry needs a date and
// a name; IDs are generated.
func ParseHolidaysYAML(data []byte) ([]generic.Holiday, error) {
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse holidays YAML: %w", err)
	}

	holidays := make([]generic.Holiday, 0, len(file.Holidays))
	for i, h := range file.Holidays {
		if h.Name == "" {
			return nil, fmt.Errorf("holiday %d: name is required", i)
		}
		date, err := generic.ParseTimePoint(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %d (%s): invalid date %q: %w", i, h.Name, h.Date, err)
		}
		holidays = append(holidays, generic.Holiday{
			ID:        uuid.NewString(),
			CompanyID: h.CompanyID,
			Date:      date,
			Name:      h.Name,
			Recurring: h.Recurring,
		})
	}
	return holidays, nil
}
