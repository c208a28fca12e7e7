package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/parleyhq/parley/chatservice"
)

func main() {
	if err := chatservice.Run(); err != nil {
		log.Error().Err(err).Msg("parley exited with error")
		os.Exit(1)
	}
}
