// Package process parses YAML process artifacts and provides the deploy pipeline stages.
package process

import (
	"strings"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Resource name suffixes handled by the parser.
var suffixes = []string{".process.yaml", ".process.yml"}

type document struct {
	Processes []processDoc `yaml:"processes"`
}

type processDoc struct {
	Key        string            `yaml:"key"`
	Name       string            `yaml:"name"`
	Properties map[string]string `yaml:"properties"`
	Elements   []elementDoc      `yaml:"elements"`
}

type elementDoc struct {
	ID   string   `yaml:"id"`
	Type string   `yaml:"type"`
	Name string   `yaml:"name"`
	Next []string `yaml:"next"`
}

// Parser implements ports.ModelParser for YAML process documents.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Accepts reports whether the resource name carries a process suffix.
func (p *Parser) Accepts(resourceName string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(resourceName, s) {
			return true
		}
	}
	return false
}

// Parse decodes every process declared in the resource.
func (p *Parser) Parse(resourceName string, data []byte) ([]*domain.Model, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		cause := zerr.With(zerr.Wrap(domain.ErrInvalidArtifact, "failed to decode process document"), "cause", err.Error())
		return nil, &domain.ArtifactError{Resource: resourceName, Err: cause}
	}
	if len(doc.Processes) == 0 {
		return nil, &domain.ArtifactError{
			Resource: resourceName,
			Err:      zerr.Wrap(domain.ErrInvalidArtifact, "no processes declared"),
		}
	}

	models := make([]*domain.Model, 0, len(doc.Processes))
	for i, pd := range doc.Processes {
		m, err := pd.model()
		if err != nil {
			return nil, &domain.ArtifactError{Resource: resourceName, Err: zerr.With(err, "index", i)}
		}
		models = append(models, m)
	}
	return models, nil
}

func (pd processDoc) model() (*domain.Model, error) {
	if strings.TrimSpace(pd.Key) == "" {
		return nil, zerr.Wrap(domain.ErrInvalidArtifact, "process key is empty")
	}

	m := domain.NewModel(pd.Key, pd.Name)
	m.Properties = pd.Properties
	for _, ed := range pd.Elements {
		typ := domain.ElementType(ed.Type)
		if !typ.Valid() {
			err := zerr.With(zerr.Wrap(domain.ErrInvalidArtifact, "unknown element type"), "process", pd.Key)
			err = zerr.With(err, "element", ed.ID)
			return nil, zerr.With(err, "type", ed.Type)
		}
		if err := m.AddElement(domain.NewElement(ed.ID, typ, ed.Name, ed.Next...)); err != nil {
			return nil, zerr.With(err, "process", pd.Key)
		}
	}
	return m, nil
}
