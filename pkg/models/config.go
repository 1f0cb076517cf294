package models

// Config represents the models service configuration
type Config struct {
	Paths           []string `yaml:"paths"`
	DefaultDatabase string   `yaml:"defaultDatabase"`
}

// Validate validates and sets defaults for the configuration
func (c *Config) Validate() error {
	c.SetDefaults()

	return nil
}

// SetDefaults sets default paths for models
func (c *Config) SetDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"models"}
	}
}
