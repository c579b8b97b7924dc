package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"tokenclick/pkg/realtime"
)

const (
	// RoundSeconds is the length of one round.
	RoundSeconds = 30
	// TickInterval is how often the countdown advances.
	TickInterval = time.Second
	// PopupDuration is how long the "+N" indicator stays up after a click.
	PopupDuration = 700 * time.Millisecond
	// MaxNicknameLen caps nicknames, counted in runes.
	MaxNicknameLen = 20
)

const (
	timerCountdown = "countdown"
	timerPopup     = "popup"
)

// Event names a kind of state change published to subscribers.
type Event string

const (
	EventNickname Event = "nickname"
	EventRound    Event = "round"
	EventTick     Event = "tick"
	EventScore    Event = "score"
	EventPopup    Event = "popup"
)

// Source picks asset indexes. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Options configures a Session. The zero value is usable.
type Options struct {
	// Clock drives the countdown and popup timers. Defaults to the real clock.
	Clock clockwork.Clock
	// Seed seeds asset selection. Zero seeds from the clock.
	Seed int64
	// Source overrides the seeded generator used for asset selection.
	Source Source
	// Catalog overrides the embedded asset catalog.
	Catalog []Asset
	// Notify is called after every state change, outside the session lock.
	Notify func(Event)
	Logger *zerolog.Logger
}

// Session is one player's page visit: nickname, the running round and its
// timers. All methods are safe for concurrent use; they are serialised on
// the session lock, so user input and timer callbacks never interleave.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	nickname    string
	submitted   bool
	score       int
	countdown   realtime.Countdown
	running     bool
	current     *Asset
	showPopup   bool
	popupPoints int
	popupSeq    uint64
	round       uint64
	clicks      int
	closed      bool

	rng     Source
	catalog []Asset
	sched   *realtime.Scheduler
	notify  func(Event)
	log     zerolog.Logger
}

// NewSession creates a session on the entry screen.
func NewSession(id string, opts Options) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	rng := opts.Source
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = clock.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	assets := opts.Catalog
	if len(assets) == 0 {
		assets = Catalog()
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(Event) {}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("session", id).Logger()
	}
	return &Session{
		ID:        id,
		CreatedAt: clock.Now().UTC(),
		countdown: realtime.NewCountdown(RoundSeconds),
		rng:       rng,
		catalog:   assets,
		sched:     realtime.NewScheduler(clock),
		notify:    notify,
		log:       logger,
	}
}

// SubmitNickname accepts the trimmed nickname if it is non-empty and none has
// been accepted yet. Rejections change nothing and are not errors.
func (s *Session) SubmitNickname(raw string) bool {
	name := strings.TrimSpace(raw)
	if name == "" {
		return false
	}
	if utf8.RuneCountInString(name) > MaxNicknameLen {
		name = strings.TrimSpace(string([]rune(name)[:MaxNicknameLen]))
	}

	s.mu.Lock()
	if s.closed || s.submitted {
		s.mu.Unlock()
		return false
	}
	s.nickname = name
	s.submitted = true
	s.mu.Unlock()

	s.log.Info().Str("nickname", name).Msg("nickname accepted")
	s.notify(EventNickname)
	return true
}

// Start begins a new round from any state: score and countdown are reset, an
// asset is spawned and the countdown timer is installed in place of any
// previous one.
func (s *Session) Start() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.round++
	round := s.round
	s.score = 0
	s.clicks = 0
	s.countdown.Reset()
	s.running = true
	s.spawnAssetLocked()
	s.sched.Every(timerCountdown, TickInterval, func() { s.tick(round) })
	s.mu.Unlock()

	s.log.Info().Uint64("round", round).Msg("round started")
	s.notify(EventRound)
}

// SpawnAsset replaces the current asset with a uniformly drawn one and
// clears the popup. Outside a round there is no asset and it does nothing.
func (s *Session) SpawnAsset() bool {
	s.mu.Lock()
	if !s.running || s.closed {
		s.mu.Unlock()
		return false
	}
	s.spawnAssetLocked()
	s.mu.Unlock()

	s.notify(EventScore)
	return true
}

// Tick advances the countdown by one second. The tick that reaches zero ends
// the round. Ticks outside a round are ignored.
func (s *Session) Tick() {
	s.mu.Lock()
	ev := s.tickLocked()
	s.mu.Unlock()
	s.emit(ev)
}

// RegisterClick scores the displayed asset and spawns the next one. Clicks
// outside a round are ignored and report ok=false.
func (s *Session) RegisterClick() (points int, ok bool) {
	s.mu.Lock()
	if !s.running || s.current == nil || s.closed {
		s.mu.Unlock()
		s.log.Debug().Msg("click ignored outside a round")
		return 0, false
	}
	points = s.current.Points
	s.score += points
	s.clicks++
	s.spawnAssetLocked()

	s.showPopup = true
	s.popupPoints = points
	seq := s.popupSeq
	s.sched.After(timerPopup, PopupDuration, func() { s.clearPopup(seq) })
	s.mu.Unlock()

	s.notify(EventScore)
	return points, true
}

// Snapshot returns a copy of the session state with its derived view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:          s.ID,
		Nickname:    s.nickname,
		Submitted:   s.submitted,
		Score:       s.score,
		TimeLeft:    s.countdown.Left,
		Running:     s.running,
		ShowPopup:   s.showPopup,
		PopupPoints: s.popupPoints,
		Round:       s.round,
		Clicks:      s.clicks,
	}
	if s.current != nil {
		asset := *s.current
		snap.Asset = &asset
	}
	snap.View = DeriveView(snap)
	return snap
}

// Close tears the session down: timers are cancelled and later operations
// are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.sched.Stop()
	s.mu.Unlock()

	s.log.Debug().Msg("session closed")
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) tick(round uint64) {
	s.mu.Lock()
	if round != s.round {
		s.mu.Unlock()
		return
	}
	ev := s.tickLocked()
	s.mu.Unlock()
	s.emit(ev)
}

func (s *Session) tickLocked() Event {
	if !s.running || s.closed {
		return ""
	}
	if _, expired := s.countdown.Tick(); !expired {
		return EventTick
	}
	s.running = false
	s.current = nil
	s.showPopup = false
	s.popupSeq++
	s.sched.Cancel(timerCountdown)
	s.sched.Cancel(timerPopup)
	s.log.Info().
		Uint64("round", s.round).
		Int("score", s.score).
		Int("clicks", s.clicks).
		Msg("round finished")
	return EventRound
}

// spawnAssetLocked also supersedes any pending popup clear.
func (s *Session) spawnAssetLocked() {
	asset := s.catalog[s.rng.Intn(len(s.catalog))]
	s.current = &asset
	s.showPopup = false
	s.popupSeq++
	s.sched.Cancel(timerPopup)
}

func (s *Session) clearPopup(seq uint64) {
	s.mu.Lock()
	if seq != s.popupSeq || !s.showPopup {
		s.mu.Unlock()
		return
	}
	s.showPopup = false
	s.mu.Unlock()
	s.notify(EventPopup)
}

func (s *Session) emit(ev Event) {
	if ev != "" {
		s.notify(ev)
	}
}
