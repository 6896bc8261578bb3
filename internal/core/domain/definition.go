package domain

import "strconv"

// Definition is a deployed, versioned process definition.
//
// The "latest" status is not stored: it is the highest Version among the
// definitions that share Key and TenantID.
type Definition struct {
	ID           string
	Key          string
	Name         string
	Version      int
	TenantID     string
	DeploymentID string
	ResourceName string
	Suspended    bool
}

// String renders the definition as key:version[@tenant].
func (d Definition) String() string {
	s := d.Key + ":" + strconv.Itoa(d.Version)
	if d.TenantID != "" {
		s += "@" + d.TenantID
	}
	return s
}

// DefinitionInfo is the versioned auxiliary configuration attached to a definition.
// A zero Revision means no row was ever written for the definition.
type DefinitionInfo struct {
	DefinitionID string
	Revision     int
	Properties   map[string]string
}

// Clone returns a copy that does not share the properties map.
func (i DefinitionInfo) Clone() DefinitionInfo {
	c := i
	if i.Properties != nil {
		c.Properties = make(map[string]string, len(i.Properties))
		for k, v := range i.Properties {
			c.Properties[k] = v
		}
	}
	return c
}
