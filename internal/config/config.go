package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/DoyleJ11/hearts-client/internal/policy"
)

const (
	TransportGRPC      = "grpc"
	TransportWebsocket = "ws"
)

type Config struct {
	Name  string `env:"HEARTS_NAME" envDefault:"Jim"`
	Email string `env:"HEARTS_EMAIL" envDefault:"jim@example.com"`

	Transport string `env:"HEARTS_TRANSPORT" envDefault:"grpc"`
	Addr      string `env:"HEARTS_ADDR" envDefault:"localhost:50057"`

	// ContinueDelay is how long the authority gets to send gameResult after a
	// handResult before the client asks for the next hand.
	ContinueDelay time.Duration `env:"HEARTS_CONTINUE_DELAY" envDefault:"1s"`
	SendTimeout   time.Duration `env:"HEARTS_SEND_TIMEOUT" envDefault:"3s"`

	Policy    string `env:"HEARTS_POLICY" envDefault:"first"`
	LuaScript string `env:"HEARTS_LUA_SCRIPT"`
	Seats     int    `env:"HEARTS_SEATS" envDefault:"1"`

	StatusAddr string `env:"HEARTS_STATUS_ADDR"`
	HistoryDSN string `env:"HEARTS_HISTORY_DSN"`

	LogLevel  string `env:"HEARTS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"HEARTS_LOG_FORMAT" envDefault:"console"`
}

// Load reads optional dotenv files (missing ones are skipped, existing variables win)
// and then parses the environment.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "HEARTS_NAME is empty")
	}
	if strings.TrimSpace(c.Email) == "" {
		problems = append(problems, "HEARTS_EMAIL is empty")
	}
	switch c.Transport {
	case TransportGRPC, TransportWebsocket:
	default:
		problems = append(problems, fmt.Sprintf("HEARTS_TRANSPORT %q is not grpc or ws", c.Transport))
	}
	if c.Addr == "" {
		problems = append(problems, "HEARTS_ADDR is empty")
	}
	if c.ContinueDelay <= 0 {
		problems = append(problems, "HEARTS_CONTINUE_DELAY must be positive")
	}
	if c.SendTimeout <= 0 {
		problems = append(problems, "HEARTS_SEND_TIMEOUT must be positive")
	}
	if c.Seats < 1 {
		problems = append(problems, "HEARTS_SEATS must be at least 1")
	}
	switch c.Policy {
	case policy.NameFirstLegal:
	case policy.NameInteractive:
		if c.Seats != 1 {
			problems = append(problems, "interactive policy needs exactly one seat")
		}
	case policy.NameLua:
		if c.LuaScript == "" {
			problems = append(problems, "lua policy needs HEARTS_LUA_SCRIPT")
		}
	default:
		problems = append(problems, fmt.Sprintf("HEARTS_POLICY %q is unknown", c.Policy))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SeatName gives each extra seat its own display name.
func (c Config) SeatName(seat int) string {
	if c.Seats == 1 {
		return c.Name
	}
	return fmt.Sprintf("%s-%d", c.Name, seat)
}
