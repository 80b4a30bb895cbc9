package config

// IsDevelopment reports whether the process runs on a developer machine.
func (c *Config) IsDevelopment() bool {
	return c.Env == "local"
}

// CookieSecure reports whether session cookies must be restricted to https.
func (c *Config) CookieSecure() bool {
	return c.Env == "production"
}
