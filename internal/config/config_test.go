package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Jim", cfg.Name)
	assert.Equal(t, TransportGRPC, cfg.Transport)
	assert.Equal(t, "localhost:50057", cfg.Addr)
	assert.Equal(t, time.Second, cfg.ContinueDelay)
	assert.Equal(t, 3*time.Second, cfg.SendTimeout)
	assert.Equal(t, 1, cfg.Seats)
	assert.Equal(t, "first", cfg.Policy)
}

func TestLoad_EnvAndDotenv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("HEARTS_NAME=Ann\nHEARTS_SEATS=3\n"), 0o600))

	t.Setenv("HEARTS_CONTINUE_DELAY", "250ms")
	t.Setenv("HEARTS_TRANSPORT", "ws")
	t.Setenv("HEARTS_ADDR", "ws://localhost:8080/play")
	// godotenv does not override, so make sure the dotenv value is not shadowed.
	os.Unsetenv("HEARTS_NAME")
	os.Unsetenv("HEARTS_SEATS")
	t.Cleanup(func() {
		os.Unsetenv("HEARTS_NAME")
		os.Unsetenv("HEARTS_SEATS")
	})

	cfg, err := Load(file, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "Ann", cfg.Name)
	assert.Equal(t, 3, cfg.Seats)
	assert.Equal(t, 250*time.Millisecond, cfg.ContinueDelay)
	assert.Equal(t, "Ann-2", cfg.SeatName(2))
}

func TestValidate(t *testing.T) {
	base := Config{
		Name: "Jim", Email: "jim@example.com", Transport: TransportGRPC, Addr: "x:1",
		ContinueDelay: time.Second, SendTimeout: time.Second, Policy: "first", Seats: 1,
	}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown transport", mutate: func(c *Config) { c.Transport = "udp" }},
		{name: "zero delay", mutate: func(c *Config) { c.ContinueDelay = 0 }},
		{name: "no seats", mutate: func(c *Config) { c.Seats = 0 }},
		{name: "interactive with many seats", mutate: func(c *Config) { c.Policy = "interactive"; c.Seats = 2 }},
		{name: "lua without script", mutate: func(c *Config) { c.Policy = "lua" }},
		{name: "unknown policy", mutate: func(c *Config) { c.Policy = "learned" }},
		{name: "blank email", mutate: func(c *Config) { c.Email = " " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
