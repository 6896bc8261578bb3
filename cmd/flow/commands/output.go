package commands

import (
	"encoding/json"
	"io"
	"maps"
	"time"

	"go.trai.ch/flow/internal/app"
	"go.trai.ch/flow/internal/core/domain"
)

type definitionView struct {
	ID           string `json:"id"`
	Key          string `json:"key"`
	Name         string `json:"name,omitempty"`
	Version      int    `json:"version"`
	TenantID     string `json:"tenant_id,omitempty"`
	DeploymentID string `json:"deployment_id"`
	Resource     string `json:"resource"`
	Suspended    bool   `json:"suspended"`
}

func viewDefinition(d domain.Definition) definitionView {
	return definitionView{
		ID:           d.ID,
		Key:          d.Key,
		Name:         d.Name,
		Version:      d.Version,
		TenantID:     d.TenantID,
		DeploymentID: d.DeploymentID,
		Resource:     d.ResourceName,
		Suspended:    d.Suspended,
	}
}

func viewDefinitions(defs []domain.Definition) []definitionView {
	out := make([]definitionView, 0, len(defs))
	for _, d := range defs {
		out = append(out, viewDefinition(d))
	}
	return out
}

type deploymentView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	TenantID    string           `json:"tenant_id,omitempty"`
	Category    string           `json:"category,omitempty"`
	DeployedAt  time.Time        `json:"deployed_at"`
	Digest      string           `json:"digest"`
	Resources   []string         `json:"resources"`
	Duplicate   bool             `json:"duplicate"`
	Definitions []definitionView `json:"definitions"`
}

func viewDeployResult(res *app.DeployResult) deploymentView {
	d := res.Deployment
	return deploymentView{
		ID:          d.ID,
		Name:        d.Name,
		TenantID:    d.TenantID,
		Category:    d.Category,
		DeployedAt:  d.DeployedAt,
		Digest:      d.Digest,
		Resources:   d.ResourceNames(),
		Duplicate:   res.Duplicate,
		Definitions: viewDefinitions(res.Definitions),
	}
}

type elementView struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Name string   `json:"name,omitempty"`
	Next []string `json:"next,omitempty"`
}

type modelView struct {
	Key        string            `json:"key"`
	Name       string            `json:"name,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Elements   []elementView     `json:"elements"`
}

func viewModel(m *domain.Model) modelView {
	v := modelView{
		Key:        m.Key,
		Name:       m.Name,
		Properties: maps.Clone(m.Properties),
		Elements:   make([]elementView, 0, m.Len()),
	}
	for e := range m.Elements() {
		next := make([]string, len(e.Next))
		for i, s := range e.Next {
			next[i] = s.String()
		}
		v.Elements = append(v.Elements, elementView{
			ID:   e.ID.String(),
			Type: string(e.Type),
			Name: e.Name,
			Next: next,
		})
	}
	return v
}

type metadataView struct {
	DefinitionID string            `json:"definition_id"`
	Revision     int               `json:"revision"`
	Properties   map[string]string `json:"properties"`
}

func viewMetadata(info domain.DefinitionInfo) metadataView {
	props := info.Properties
	if props == nil {
		props = map[string]string{}
	}
	return metadataView{
		DefinitionID: info.DefinitionID,
		Revision:     info.Revision,
		Properties:   props,
	}
}

type suspensionView struct {
	ID        string `json:"id"`
	Suspended bool   `json:"suspended"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
