// Package llm provides a unified interface for the inference backends
// clarifier can talk to.
//
// # Overview
//
// The Provider interface hides which backend answers a chat request. The
// backend is chosen once at startup from the environment tag in the resolved
// configuration and held for the life of the process.
//
// # Strategies
//
//	env tag            strategy    backend
//	local              local       llm/mock, offline and deterministic
//	dev, empty         dev         llm/bedrock, default AWS credential chain
//	anything else      federated   llm/bedrock, Cognito login credentials
//
// The tag is trimmed and compared case-insensitively. Each strategy declares
// the configuration keys it needs (Strategy.RequiredKeys); NewProvider
// returns a *ConfigurationError listing every missing one before it touches
// the network.
//
// # Architecture
//
// Backends live in subpackages that define their own Message, ChatOptions and
// Response types. The parent package adapts them, which keeps the import
// graph acyclic:
//
//	┌──────────────┐
//	│ llm package  │  ← Provider interface, SelectStrategy
//	│              │  ← Factory: NewProvider()
//	│              │  ← Adapters for each backend
//	└──────┬───────┘
//	       │
//	       ├──────────────┐
//	       │              │
//	┌──────▼──────┐  ┌────▼────────┐
//	│ llm/mock    │  │ llm/bedrock │
//	└─────────────┘  └─────────────┘
//
// # Usage
//
//	provider, err := llm.NewProvider(ctx, cfg, logger)
//	if err != nil {
//	    var cfgErr *llm.ConfigurationError
//	    if errors.As(err, &cfgErr) {
//	        // cfgErr.Missing names every absent key
//	    }
//	    return err
//	}
//
//	resp, err := provider.Chat(ctx, []llm.Message{
//	    {Role: "system", Content: "You clarify objectives."},
//	    {Role: "user", Content: "Objective: make login faster"},
//	}, &llm.ChatOptions{Model: cfg.BedrockModelID})
//
// # Federated credentials
//
// The federated strategy logs in against the Cognito user pool, exchanges the
// id token at the identity pool and signs Bedrock calls with the temporary
// credentials. The exchange runs once during NewProvider and again only when
// the cached credentials expire.
//
// # Error Handling
//
//   - ErrProviderUnavailable: the backend could not be reached or refused the call
//   - ErrInvalidResponse: the backend answered with nothing usable
//   - ErrContextCanceled: the request context ended first
//   - ErrMissingModel: no model identifier was supplied
//
// # Thread Safety
//
// All Provider implementations are safe for concurrent use.
package llm
