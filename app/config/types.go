package config

// Source is a configured RSS/Atom endpoint with a display name.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Symbol is a quote symbol with its display name.
type Symbol struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// File is the optional YAML override for the built-in configuration.
// Either section may be omitted, in which case the defaults are kept.
type File struct {
	Sources []Source `yaml:"sources"`
	Symbols []Symbol `yaml:"symbols"`
}
