package catalog

// Config defines configuration for the dataset catalog
type Config struct {
	Paths           []string `yaml:"paths"`
	DefaultDatabase string   `yaml:"defaultDatabase"`
}

// SetDefaults sets default dataset definition paths
func (c *Config) SetDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"datasets"}
	}
}

// Validate validates and sets defaults for the configuration
func (c *Config) Validate() error {
	c.SetDefaults()

	return nil
}
