package categorizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"costeo/ingesta/internal/logging"
)

// LoadTaxonomy reads an ordered taxonomy from a YAML file, for tenants
// that override the default category set. A missing file falls back to
// the default taxonomy with a warning; a malformed file is an error.
func LoadTaxonomy(path string, logger logging.Logger) ([]Category, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("taxonomy file not found, using default taxonomy",
				logging.Field{Key: "file", Value: path})
			return DefaultTaxonomy(), nil
		}
		return nil, fmt.Errorf("error reading taxonomy file: %w", err)
	}

	var taxonomy []Category
	if err := yaml.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("error parsing taxonomy file: %w", err)
	}
	if len(taxonomy) == 0 {
		logger.Warn("taxonomy file is empty, using default taxonomy",
			logging.Field{Key: "file", Value: path})
		return DefaultTaxonomy(), nil
	}
	return taxonomy, nil
}
