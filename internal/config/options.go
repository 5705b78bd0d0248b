package config

// InitOptions are the initializationOptions an editor may send. Set fields
// take precedence over wgslsp.toml.
type InitOptions struct {
	IncludePaths []string       `json:"includePaths,omitempty"`
	ShaderDefs   map[string]any `json:"shaderDefs,omitempty"`
	Validate     *bool          `json:"validate,omitempty"`
}

// Settings is the `wgslsp` section of workspace/didChangeConfiguration.
type Settings struct {
	Trace    *bool `json:"trace,omitempty"`
	Validate *bool `json:"validate,omitempty"`
}

// Apply merges editor options into c. Shader defs from the editor replace
// same-named entries from the file.
func (c *Config) Apply(o InitOptions) error {
	if len(o.IncludePaths) > 0 {
		c.Server.IncludePaths = append(c.Server.IncludePaths, o.IncludePaths...)
	}
	if o.Validate != nil {
		c.Server.Validate = *o.Validate
	}
	if len(o.ShaderDefs) > 0 {
		merged := make(map[string]any, len(c.ShaderDefs)+len(o.ShaderDefs))
		for k, v := range c.ShaderDefs {
			merged[k] = v
		}
		for k, v := range o.ShaderDefs {
			merged[k] = v
		}
		c.ShaderDefs = merged
	}
	_, err := c.Defs()
	return err
}
