package config

// DomainConfig holds the record format and search defaults
type DomainConfig struct {
	// Record format
	RecordExtension string
	DisplayIDMarker string

	// Page size when a request names none
	DefaultLimit int

	// Fuzzy title matching, on the [0,1] scale of pkg/fuzzy.Ratio
	MatchThreshold float64
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		RecordExtension: ".json",
		DisplayIDMarker: "$",
		DefaultLimit:    20,
		MatchThreshold:  0.95,
	}
}
