package llm

import (
	"fmt"
	"strings"

	"github.com/bimmerbailey/clarifier/internal/config"
)

// Strategy selects how inference clients authenticate.
type Strategy string

const (
	// StrategyLocal uses the offline mock client.
	StrategyLocal Strategy = "local"

	// StrategyDev uses Bedrock with the ambient AWS credential chain.
	StrategyDev Strategy = "dev"

	// StrategyFederated logs in through Cognito and uses the resulting
	// temporary credentials for Bedrock.
	StrategyFederated Strategy = "federated"
)

// SelectStrategy maps an environment tag to a strategy. The tag is trimmed
// and compared case-insensitively; an empty tag means dev.
func SelectStrategy(env string) Strategy {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "local":
		return StrategyLocal
	case "", "dev":
		return StrategyDev
	default:
		return StrategyFederated
	}
}

// RequiredKeys lists the configuration keys the strategy needs, in the order
// they are reported when missing.
func (s Strategy) RequiredKeys() []config.Key {
	switch s {
	case StrategyFederated:
		return []config.Key{
			config.KeyRegion,
			config.KeyUserPoolID,
			config.KeyClientID,
			config.KeyIdentityPoolID,
			config.KeyCognitoUsername,
			config.KeyCognitoPassword,
		}
	default:
		return []config.Key{config.KeyRegion}
	}
}

// ConfigurationError reports required keys that are absent for the selected
// strategy. It is fatal at startup.
type ConfigurationError struct {
	Strategy Strategy
	Missing  []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration for %s strategy: %s",
		e.Strategy, strings.Join(e.Missing, ", "))
}

// Validate checks cfg against the strategy's required keys and returns a
// *ConfigurationError naming every missing key.
func Validate(cfg *config.Config, s Strategy) error {
	missing := cfg.Missing(s.RequiredKeys())
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, k := range missing {
		names[i] = string(k)
	}
	return &ConfigurationError{Strategy: s, Missing: names}
}
