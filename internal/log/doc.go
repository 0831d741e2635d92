// Package log provides secure logging built on the standard slog package.
//
// Every corpscope command holds the user's Cohere and Tavily API keys at some
// point, so logs must never carry them. The SecureHandler masks:
//   - attributes whose key names a credential (cohere_api_key, tavily_api_key,
//     authorization, token, password, ...)
//   - string values shaped like credentials (Tavily "tvly-" keys, bearer
//     tokens, JWTs, long opaque alphanumeric strings)
//
// Masking applies in verbose mode too.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true, log.FormatText)
//	logger.Debug("keys submitted",
//	    "cohere_api_key", cohere, // logged as ***REDACTED***
//	    "url", baseURL,
//	)
//	slog.SetDefault(logger)
package log
