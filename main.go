package main

import (
	"errors"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/lockaudit/lockaudit/pkg/cli"
)

// exitCodeFindings is the exit code for a successful audit that reported
// findings, distinct from exit code 1 for errors during execution.
const exitCodeFindings = 2

func main() {
	err := cli.New().Execute()
	if err == nil {
		return
	}

	if errors.Is(err, cli.ErrVulnerabilitiesFound) {
		log.Error(err)
		os.Exit(exitCodeFindings)
	}

	log.Fatalf("error during command execution: %v", err)
}
