// Package sim plays sessions without a browser. Time is driven by explicit
// ticks so a seed always produces the same game.
package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"tokenclick/internal/game"
)

// Config describes an autoplay run.
type Config struct {
	Seed            int64
	Nickname        string
	ClicksPerSecond int
	Rounds          int
	Logger          *zerolog.Logger
}

// Round is the outcome of one played round.
type Round struct {
	Score  int      `json:"score"`
	Clicks int      `json:"clicks"`
	Assets []string `json:"assets"`
}

// Result is the outcome of a run.
type Result struct {
	Seed     int64   `json:"seed"`
	Nickname string  `json:"nickname"`
	Rounds   []Round `json:"rounds"`
	Best     int     `json:"best"`
}

// Run plays cfg.Rounds rounds, clicking cfg.ClicksPerSecond times before each
// tick of the countdown.
func Run(cfg Config) (Result, error) {
	if cfg.Seed == 0 {
		return Result{}, errors.New("seed must be non-zero")
	}
	if cfg.ClicksPerSecond < 0 {
		return Result{}, fmt.Errorf("clicks per second %d must not be negative", cfg.ClicksPerSecond)
	}
	if cfg.Rounds == 0 {
		cfg.Rounds = 1
	}
	if cfg.Rounds < 0 {
		return Result{}, fmt.Errorf("rounds %d must be positive", cfg.Rounds)
	}
	if strings.TrimSpace(cfg.Nickname) == "" {
		cfg.Nickname = "autoplay"
	}

	sess := game.NewSession("autoplay", game.Options{
		Clock:  clockwork.NewFakeClock(),
		Seed:   cfg.Seed,
		Logger: cfg.Logger,
	})
	defer sess.Close()

	if !sess.SubmitNickname(cfg.Nickname) {
		return Result{}, fmt.Errorf("nickname %q rejected", cfg.Nickname)
	}

	res := Result{Seed: cfg.Seed, Nickname: sess.Snapshot().Nickname}
	for i := 0; i < cfg.Rounds; i++ {
		round := playRound(sess, cfg.ClicksPerSecond)
		if round.Score > res.Best {
			res.Best = round.Score
		}
		res.Rounds = append(res.Rounds, round)
	}
	return res, nil
}

func playRound(sess *game.Session, clicksPerSecond int) Round {
	sess.Start()
	round := Round{Assets: []string{}}
	for sess.Snapshot().Running {
		for c := 0; c < clicksPerSecond; c++ {
			asset := sess.Snapshot().Asset
			if asset == nil {
				break
			}
			if _, ok := sess.RegisterClick(); ok {
				round.Assets = append(round.Assets, asset.Name)
			}
		}
		sess.Tick()
	}
	snap := sess.Snapshot()
	round.Score = snap.Score
	round.Clicks = snap.Clicks
	return round
}
