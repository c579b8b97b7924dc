package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"tokenclick/internal/logging"
	"tokenclick/internal/sim"
)

func main() {
	seed := flag.Int64("seed", 0, "asset selection seed (0 picks one from the clock)")
	cps := flag.Int("cps", 4, "clicks per second")
	rounds := flag.Int("rounds", 1, "rounds to play")
	nickname := flag.String("nickname", "autoplay", "player nickname")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := logging.Setup(*logLevel, "console", os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	res, err := sim.Run(sim.Config{
		Seed:            *seed,
		Nickname:        *nickname,
		ClicksPerSecond: *cps,
		Rounds:          *rounds,
		Logger:          &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("autoplay")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Fatal().Err(err).Msg("write result")
	}
}
