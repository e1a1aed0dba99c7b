// Package inference holds the keyword heuristics behind the builder: agent
// type classification, trigger phrases, knowledge source suggestions and the
// simulated chat responses used by test mode.
//
// Every function here is pure. Matching is literal substring matching over
// lowercased text; nothing attempts to understand language.
package inference
