package resource

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"

	"umbrella-bot/pkg/log"
)

const defaultPropertiesPath = "configs/application.yml"

var envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)

// Properties exposes the flattened application.yml with ${ENV:default} placeholders resolved.
type Properties struct {
	v *viper.Viper
}

// PropertiesPath returns PROPERTIES_FILE_PATH or the default configs/application.yml.
func PropertiesPath() string {
	if value, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok && value != "" {
		return value
	}
	return defaultPropertiesPath
}

// Load reads the YAML file at filepath and resolves environment placeholders.
func Load(filepath string) (*Properties, error) {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fail to read properties %s: %w", filepath, err)
	}

	properties := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), properties)

	resolved := viper.New()
	for key, value := range properties {
		resolved.Set(key, value)
	}

	return &Properties{v: resolved}, nil
}

// FromMap builds Properties from already flattened keys, mostly for tests.
func FromMap(values map[string]any) *Properties {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return &Properties{v: v}
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			if resolved, ok := resolveEnvVariable(v); ok {
				result[fullKey] = resolved
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case []any:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Warnf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable replaces a ${NAME:default} value with the environment value or the default.
// Literal values are returned unchanged. ok is false when neither the variable nor a default exist.
func resolveEnvVariable(value string) (string, bool) {
	matches := envPattern.FindStringSubmatch(value)
	if len(matches) == 0 {
		return value, true
	}

	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue, true
	}
	if matches[2] != "" {
		return matches[2], true
	}
	return "", false
}

func (p *Properties) IsSet(key string) bool {
	return p.v.IsSet(key)
}

func (p *Properties) Get(key string) any {
	return p.v.Get(key)
}

func (p *Properties) GetString(key string) string {
	return p.v.GetString(key)
}

func (p *Properties) GetStringOrDefault(key, defaultValue string) string {
	if value := p.v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func (p *Properties) GetBool(key string) bool {
	return p.v.GetBool(key)
}

func (p *Properties) GetDuration(key string) time.Duration {
	return p.v.GetDuration(key)
}

func (p *Properties) GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := p.v.GetDuration(key); value > 0 {
		return value
	}
	return defaultValue
}

func (p *Properties) GetInt(key string) int {
	return p.v.GetInt(key)
}

func (p *Properties) GetIntOrDefault(key string, defaultValue int) int {
	if !p.v.IsSet(key) {
		return defaultValue
	}
	return p.v.GetInt(key)
}

func (p *Properties) GetStringSlice(key string) []string {
	return p.v.GetStringSlice(key)
}
