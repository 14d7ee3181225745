package config

import (
	"bytes"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleConfig() *Config {
	return &Config{
		DataDir:       "data",
		Addr:          ":9000",
		Format:        "markdown",
		TopN:          10,
		ZoomThreshold: 4,
		FocusZoom:     8.5,
		DefaultYears:  "2000-2020",
		SessionIdle:   "30m",
		StatusColors:  map[string]string{"operating": "#00ff00"},
		BarColors:     map[string]string{"cancelled": "#777777"},
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	original := sampleConfig()

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, original, &decoded)
}

func TestConfig_TOMLRoundTrip(t *testing.T) {
	original := sampleConfig()

	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, original))
	assert.Contains(t, buf.String(), "top_n = 10")

	var decoded Config
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, original, &decoded)
}

func TestConfig_OmitsEmpty(t *testing.T) {
	data, err := yaml.Marshal(&Config{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
