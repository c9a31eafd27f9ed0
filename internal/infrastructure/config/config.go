// Package config loads the Scheduler Root's configuration from the
// process environment. Grounded on the teacher's
// internal/infrastructure/config package (viper + godotenv, env vars
// bound ahead of a config file, go-playground/validator struct tags),
// collapsed from the teacher's multi-file Database/API/Routing/Daemon
// sub-configs down to the flat set of inputs this controller actually
// needs.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is every environment-sourced input the Scheduler Root needs to
// start a run.
type Config struct {
	AgentCallsign string `mapstructure:"agent_callsign" validate:"required"`
	AgentFaction  string `mapstructure:"agent_faction" validate:"required"`
	AgentEmail    string `mapstructure:"agent_email"`

	APIBaseURL             string `mapstructure:"api_base_url" validate:"required,url"`
	SpacetradersToken      string `mapstructure:"spacetraders_account_token"`
	DatabaseURL            string `mapstructure:"database_url" validate:"required"`

	// JobIDFilter restricts this process to ships whose job id matches,
	// supporting multiple controller processes sharing one reset.
	JobIDFilter string `mapstructure:"job_id_filter"`

	OverrideConstructionSupplyCheck bool `mapstructure:"override_construction_supply_check"`
	ScrapAllShips                   bool `mapstructure:"scrap_all_ships"`
	ScrapUnassigned                 bool `mapstructure:"scrap_unassigned"`
	NoGateMode                      bool `mapstructure:"no_gate_mode"`

	// EraOverride forces the Agent Controller's era classification
	// instead of deriving it from fleet size/value (§4.K).
	EraOverride string `mapstructure:"era_override"`

	DashboardStaticDir string        `mapstructure:"dashboard_static_dir"`
	TickInterval        time.Duration `mapstructure:"tick_interval"`
}

// envBindings maps each config key to the bare environment variable it is
// bound to; no env prefix is set (mirrors the teacher's special-cased
// DATABASE_URL handling, generalized to every input named in the spec).
var envBindings = map[string]string{
	"agent_callsign":                     "AGENT_CALLSIGN",
	"agent_faction":                      "AGENT_FACTION",
	"agent_email":                        "AGENT_EMAIL",
	"api_base_url":                       "API_BASE_URL",
	"spacetraders_account_token":         "SPACETRADERS_ACCOUNT_TOKEN",
	"database_url":                       "DATABASE_URL",
	"job_id_filter":                      "JOB_ID_FILTER",
	"override_construction_supply_check": "OVERRIDE_CONSTRUCTION_SUPPLY_CHECK",
	"scrap_all_ships":                    "SCRAP_ALL_SHIPS",
	"scrap_unassigned":                   "SCRAP_UNASSIGNED",
	"no_gate_mode":                       "NO_GATE_MODE",
	"era_override":                       "ERA_OVERRIDE",
	"dashboard_static_dir":               "DASHBOARD_STATIC_DIR",
	"tick_interval":                      "TICK_INTERVAL",
}

// Load reads .env (if present), binds the spec's required environment
// variables, applies defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}
	// POSTGRES_URI is an accepted alias for DATABASE_URL (§ ambient
	// stack: "DATABASE_URL/POSTGRES_URI").
	if v.GetString("database_url") == "" {
		if err := v.BindEnv("database_url", "POSTGRES_URI"); err != nil {
			return nil, err
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tick_interval", 2*time.Second)
	v.SetDefault("dashboard_static_dir", "")
}
