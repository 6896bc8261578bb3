package domain

// Step is one element of a compiled execution plan.
type Step struct {
	Element Symbol
	Type    ElementType
	// Next holds indexes into Executable.Steps.
	Next []int
}

// Executable is the runnable compiled form of a process model.
type Executable struct {
	Key   string
	Steps []Step
	// Start is the index of the start step.
	Start int
	// Checksum identifies the compiled plan; equal models compile to equal checksums.
	Checksum uint64
}

// ExecutableEntry is the executable cache payload.
type ExecutableEntry struct {
	Definition Definition
	Executable *Executable
}

// MetadataEntry is the metadata cache payload.
type MetadataEntry struct {
	Definition Definition
	Info       DefinitionInfo
}
