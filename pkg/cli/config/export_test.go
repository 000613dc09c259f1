package config

// SetPath overrides the integrations config path for testing.
func (x *Integrations) SetPath(path string) {
	x.path = path
}

// Set overrides the logger settings for testing.
func (x *Logger) Set(level, format, output string) {
	x.level = level
	x.format = format
	x.output = output
}
