package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Input   InputConfig   `yaml:"input"`
	Filter  FilterConfig  `yaml:"filter"`
	Stats   StatsConfig   `yaml:"stats"`
	Export  ExportConfig  `yaml:"export"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls log verbosity and format.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g. "info", "debug"
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file,omitempty"` // append logs here instead of stderr
}

// InputConfig describes the access log to parse.
type InputConfig struct {
	Path   string `yaml:"path"`   // file path, or "-" for stdin
	Format string `yaml:"format"` // Apache, Nginx, IIS or Tomcat
}

// FilterConfig narrows the parsed records.
type FilterConfig struct {
	From  string            `yaml:"from,omitempty"` // YYYY-MM-DD, inclusive
	To    string            `yaml:"to,omitempty"`   // YYYY-MM-DD, inclusive
	Match map[string]string `yaml:"match,omitempty"`

	StatusMin int `yaml:"status_min,omitempty"` // inclusive, 0 = open
	StatusMax int `yaml:"status_max,omitempty"` // inclusive, 0 = open
}

// StatsConfig selects the columns to rank.
type StatsConfig struct {
	Columns []string `yaml:"columns,omitempty"`
	Top     int      `yaml:"top,omitempty"`
}

// ExportConfig controls file export. An empty format disables it.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // csv or json
	Dir    string `yaml:"dir,omitempty"`
}

// MetricsConfig controls the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}
