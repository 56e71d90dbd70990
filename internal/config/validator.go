package config

// Warnings reports non-fatal problems such as example credentials left in
// place for a postgres deployment
func (c *Config) Warnings() []string {
	var warnings []string

	if c.StoreDriver == StoreDriverPostgres {
		switch c.DBPassword {
		case ExampleDBPassword:
			warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
		case DefaultDBPassword:
			if c.Environment == "prod" {
				warnings = append(warnings, "DB_PASSWORD is the default value in a production environment")
			}
		}
	}

	if c.EnvSchemaVersion == "" {
		warnings = append(warnings, "ENV_SCHEMA_VERSION is not set - expected "+ExpectedEnvSchemaVersion)
	}
	return warnings
}
