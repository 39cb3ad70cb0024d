package configuration

type ApiConfig struct {
	// Enabled serves the read-only state api for external display layers.
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type StatisticsConfig struct {
	// Enabled serves prometheus metrics.
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}
