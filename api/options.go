package api

// ReplaceOptions constrain a Replace operation. The zero value replaces only
// the first occurrence in document order, scanning the whole file.
type ReplaceOptions struct {
	// All replaces every occurrence within the scanned range instead of
	// stopping after the first.
	All bool
	// LineStart is the 1-indexed inclusive lower bound of the scanned
	// range; 0 means start of file.
	LineStart int
	// LineEnd is the 1-indexed inclusive upper bound of the scanned range;
	// 0 means end of file.
	LineEnd int
}

// FindOptions filter and shape Find results.
type FindOptions struct {
	// Type restricts matches to one node type; zero matches all types.
	Type NodeType
	// FullPath matches the pattern against the path relative to the search
	// root instead of the node name. Glob stars never cross separators
	// either way.
	FullPath bool
}

// GrepOptions adjust Grep matching.
type GrepOptions struct {
	// NoCase folds both pattern and content to lower case before matching.
	NoCase bool
}
