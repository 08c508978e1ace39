// Command docintel extracts structured content from documents and
// serializes it as plain text or as the full ExtractionResult JSON.
package main

import "github.com/joho/godotenv"

func main() {
	// Best-effort: a missing .env is normal outside local development,
	// so ServiceConfig still falls back to whatever the shell exports.
	_ = godotenv.Load()
	Execute()
}
