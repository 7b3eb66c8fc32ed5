package report

import (
	"time"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"gopkg.in/yaml.v3"
)

// renderYAML generates a YAML report
func renderYAML(result *models.ScanResult, generated time.Time) ([]byte, error) {
	return yaml.Marshal(newDocument(result, generated))
}
