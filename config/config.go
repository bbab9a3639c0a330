package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Gemini struct {
		Model          string        `mapstructure:"model"`
		EmbeddingModel string        `mapstructure:"embeddingModel"`
		Temperature    float64       `mapstructure:"temperature"`
		Timeout        time.Duration `mapstructure:"timeout"`
	} `mapstructure:"gemini"`
	Planner struct {
		TopK          int `mapstructure:"topK"`
		MaxIterations int `mapstructure:"maxIterations"`
	} `mapstructure:"planner"`
	Store struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"store"`
	Fetch struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"fetch"`
	Wikipedia struct {
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"wikipedia"`
	Trip TripConfig `mapstructure:"trip"`
}

// TripConfig carries the enumerations the UI layer offers: the supported
// cities with their source documents, the audience types, and the hourly time
// options. The core logic never reads these directly.
type TripConfig struct {
	DefaultStartTime string       `mapstructure:"defaultStartTime"`
	DefaultEndTime   string       `mapstructure:"defaultEndTime"`
	AudienceTypes    []string     `mapstructure:"audienceTypes"`
	Cities           []CityConfig `mapstructure:"cities"`
}

// CityConfig names one supported city and the documents its attractions are
// built from.
type CityConfig struct {
	Name      string   `mapstructure:"name"`
	WikiPages []string `mapstructure:"wikiPages"`
	WebPages  []string `mapstructure:"webPages"`
}

// CityNames returns the configured city names in declaration order.
func (t TripConfig) CityNames() []string {
	names := make([]string, 0, len(t.Cities))
	for _, c := range t.Cities {
		names = append(names, c.Name)
	}
	return names
}

// HourOptions returns the fixed hourly time enumeration offered by the form,
// "0:00" through "23:00".
func (t TripConfig) HourOptions() []string {
	hours := make([]string, 0, 24)
	for i := 0; i < 24; i++ {
		hours = append(hours, fmt.Sprintf("%d:00", i))
	}
	return hours
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
