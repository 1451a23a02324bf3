package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Neverdecel/VacAI/cmd/vacai/commands"
	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
)

func main() {
	// .env is optional; config env bindings pick up whatever it sets
	_ = godotenv.Load()

	if err := logger.Initialize(os.Getenv("VACAI_LOG_JSON") == "true"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Cleanup()

	if err := commands.Execute(); err != nil {
		if errors.Is(err, commands.ErrPartial) {
			// The run finished but some items were skipped or failed
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
