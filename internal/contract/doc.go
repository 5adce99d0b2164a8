// Package contract runs the scenarios against the real TMDB API with go test.
//
// The suite is skipped unless TMDB_API_KEY is set, see internal/config for every variable:
//
//	TMDB_API_KEY=... TMDB_USERNAME=... TMDB_PASSWORD=... go test ./internal/contract/ -v
package contract
