package config

import "github.com/spf13/viper"

// Config stores all configuration of the application, read by viper from a
// config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	OverpassURL   string `mapstructure:"OVERPASS_URL"`

	PlacesBaseURL    string `mapstructure:"PLACES_BASE_URL"`
	GeoIPURL         string `mapstructure:"GEOIP_URL"`
	DiscoveryRadiusM int    `mapstructure:"DISCOVERY_RADIUS_M"`

	PassportBackend string `mapstructure:"PASSPORT_BACKEND"`
	PassportPath    string `mapstructure:"PASSPORT_PATH"`
	PassportKey     string `mapstructure:"PASSPORT_KEY"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	DBSource        string `mapstructure:"DB_SOURCE"`
}

// LoadConfig reads configuration from a file under path or from environment
// variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
