package main

import (
	"os"

	"gig-roster-api/core/logger"
	"gig-roster-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
