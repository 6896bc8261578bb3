package domain

// Batch stages the output of one deploy run. Deployers write into it and the
// manager publishes it to the shared caches only after every stage succeeded.
type Batch struct {
	Deployment *Deployment

	definitions []Definition
	byID        map[string]int
	models      map[string]*Model
	executables map[string]*ExecutableEntry
	metadata    map[string]*MetadataEntry
}

// NewBatch creates an empty batch for the given deployment.
func NewBatch(d *Deployment) *Batch {
	return &Batch{
		Deployment:  d,
		byID:        make(map[string]int),
		models:      make(map[string]*Model),
		executables: make(map[string]*ExecutableEntry),
		metadata:    make(map[string]*MetadataEntry),
	}
}

// AddDefinition stages a definition together with its parsed model.
// Adding the same id twice replaces the earlier staging.
func (b *Batch) AddDefinition(def Definition, model *Model) {
	if i, ok := b.byID[def.ID]; ok {
		b.definitions[i] = def
	} else {
		b.byID[def.ID] = len(b.definitions)
		b.definitions = append(b.definitions, def)
	}
	if model != nil {
		b.models[def.ID] = model
	}
}

// Definitions returns the staged definitions in staging order.
func (b *Batch) Definitions() []Definition {
	out := make([]Definition, len(b.definitions))
	copy(out, b.definitions)
	return out
}

// Definition returns the staged definition with the given id.
func (b *Batch) Definition(id string) (Definition, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Definition{}, false
	}
	return b.definitions[i], true
}

// Model returns the staged model for a definition id.
func (b *Batch) Model(id string) (*Model, bool) {
	m, ok := b.models[id]
	return m, ok
}

// AddExecutable stages an executable entry.
func (b *Batch) AddExecutable(e *ExecutableEntry) {
	b.executables[e.Definition.ID] = e
}

// Executable returns the staged executable entry for a definition id.
func (b *Batch) Executable(id string) (*ExecutableEntry, bool) {
	e, ok := b.executables[id]
	return e, ok
}

// AddMetadata stages a metadata entry.
func (b *Batch) AddMetadata(e *MetadataEntry) {
	b.metadata[e.Definition.ID] = e
}

// Metadata returns the staged metadata entry for a definition id.
func (b *Batch) Metadata(id string) (*MetadataEntry, bool) {
	e, ok := b.metadata[id]
	return e, ok
}

// Len returns the number of staged definitions.
func (b *Batch) Len() int {
	return len(b.definitions)
}
