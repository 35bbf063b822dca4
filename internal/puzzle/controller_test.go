package puzzle

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronLay10/PuzzleMaster/internal/bus"
	"github.com/AaronLay10/PuzzleMaster/internal/events"
)

// recorder implements every collaborator and records calls in order.
type recorder struct {
	mu      sync.Mutex
	calls   []string
	loads   []string
	playing bool
	current string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) RequestSceneLoad(id string) {
	r.add("load:" + id)
	r.mu.Lock()
	r.loads = append(r.loads, id)
	r.mu.Unlock()
}

func (r *recorder) PlayBackgroundScore() {
	r.add("score:play")
	r.mu.Lock()
	r.playing = true
	r.mu.Unlock()
}

func (r *recorder) StopBackgroundScore() {
	r.add("score:stop")
	r.mu.Lock()
	r.playing = false
	r.mu.Unlock()
}

func (r *recorder) ScorePlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

func (r *recorder) SetActionText(text string) { r.add("ui:text:" + text) }
func (r *recorder) CancelProgressDisplay()    { r.add("ui:cancel") }
func (r *recorder) SetPlayerHealth(v int)     { r.add("player:health") }
func (r *recorder) SetPlayerAmmo(v int)       { r.add("player:ammo") }
func (r *recorder) Health() int               { return 100 }
func (r *recorder) Ammo() int                 { return 12 }

func (r *recorder) RecordCurrentPuzzle(id string) {
	r.add("session:" + id)
	r.mu.Lock()
	r.current = id
	r.mu.Unlock()
}

func (r *recorder) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recorder) sceneLoads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.loads...)
}

type harness struct {
	ctrl  *Controller
	rec   *recorder
	clock *FrameScheduler
	bus   *bus.Bus
}

func newHarness(t *testing.T, chain Chain) *harness {
	t.Helper()
	rec := &recorder{}
	clock := NewFrameScheduler()
	b := bus.New()
	ctrl := NewController(Config{
		Bus:   b,
		Chain: chain,
		Collaborators: Collaborators{
			Scenes:  rec,
			Audio:   rec,
			UI:      rec,
			Player:  rec,
			Session: rec,
		},
		Scheduler: clock,
	})
	t.Cleanup(ctrl.Cancel)
	return &harness{ctrl: ctrl, rec: rec, clock: clock, bus: b}
}

func targets(ids ...string) []TargetID {
	out := make([]TargetID, len(ids))
	for i, id := range ids {
		out[i] = TargetID(id)
	}
	return out
}

func TestPuzzleOneScenario(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})

	var published []bus.SceneRef
	h.bus.OnNextPuzzle(func(s bus.SceneRef) error {
		published = append(published, s)
		return nil
	})

	require.NoError(t, h.ctrl.Initialize(Definition{
		ID:             "PuzzleOne",
		Scene:          "scenes/puzzle_one",
		Targets:        targets("A", "B", "C"),
		HasSuccessor:   true,
		SuccessorScene: "scenes/puzzle_two",
	}))
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.Equal(t, "PuzzleOne", h.rec.current)

	assert.True(t, h.ctrl.EliminateTarget("A"))
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.Equal(t, targets("B", "C"), h.ctrl.Remaining())

	assert.True(t, h.ctrl.EliminateTarget("B"))
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.Equal(t, targets("C"), h.ctrl.Remaining())

	assert.True(t, h.ctrl.EliminateTarget("C"))
	assert.Equal(t, StateSolving, h.ctrl.State())
	assert.True(t, h.ctrl.ResolvePending())
	assert.Empty(t, h.rec.sceneLoads(), "scene change waits for the delay")

	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, StateSolving, h.ctrl.State())

	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, StateTransitioning, h.ctrl.State())
	assert.Equal(t, []bus.SceneRef{"scenes/puzzle_two"}, published)
	assert.Equal(t, []string{"PuzzleTwo"}, h.rec.sceneLoads())
	assert.Equal(t, 1, h.rec.count("score:stop"))

	// Fires once: no re-scheduled resolve.
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, []string{"PuzzleTwo"}, h.rec.sceneLoads())
	assert.Equal(t, 0, h.clock.Pending())
}

func TestWinPathPublishesGameOver(t *testing.T) {
	h := newHarness(t, Chain{})

	var outcomes []bool
	h.bus.OnGameOver(func(won bool) error {
		outcomes = append(outcomes, won)
		return nil
	})

	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleEight", Targets: targets("boss")}))

	states := []State{h.ctrl.State()}
	h.ctrl.EliminateTarget("boss")
	states = append(states, h.ctrl.State())
	h.clock.Advance(DefaultResolveDelay)
	states = append(states, h.ctrl.State())

	assert.Equal(t, []State{StateActive, StateSolving, StateWon}, states)
	assert.Equal(t, []string{DefaultWinScene}, h.rec.sceneLoads())
	assert.Equal(t, []bool{true}, outcomes)
	assert.Equal(t, 1, h.rec.count("score:stop"))

	// Terminal: later calls are ignored.
	assert.False(t, h.ctrl.EliminateTarget("boss"))
	h.clock.Advance(time.Minute)
	assert.Equal(t, StateWon, h.ctrl.State())
	assert.Len(t, h.rec.sceneLoads(), 1)
}

func TestChainWithGapLoadsConfiguredSuccessor(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleFive": "PuzzleSeven", "PuzzleSeven": "PuzzleEight"})

	require.NoError(t, h.ctrl.Initialize(Definition{
		ID:             "PuzzleFive",
		Targets:        targets("guard"),
		HasSuccessor:   true,
		SuccessorScene: "scenes/puzzle_seven",
	}))
	h.ctrl.EliminateTarget("guard")
	h.clock.Advance(DefaultResolveDelay)

	assert.Equal(t, []string{"PuzzleSeven"}, h.rec.sceneLoads())
}

func TestDuplicateEliminationsTransitionOnce(t *testing.T) {
	h := newHarness(t, Chain{})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleThree", Targets: targets("A", "B", "C")}))

	for _, id := range []string{"B", "B", "A", "ghost", "A", "C", "C", "B"} {
		h.ctrl.EliminateTarget(TargetID(id))
	}

	assert.Equal(t, StateSolving, h.ctrl.State())
	assert.Equal(t, 1, h.rec.count("ui:cancel"))
	assert.Equal(t, 1, h.clock.Pending())
}

func TestEliminateAbsentTargetKeepsSize(t *testing.T) {
	h := newHarness(t, Chain{})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A", "B")}))

	require.True(t, h.ctrl.EliminateTarget("A"))
	before := len(h.ctrl.Remaining())

	assert.False(t, h.ctrl.EliminateTarget("A"))
	assert.False(t, h.ctrl.EliminateTarget("Z"))
	assert.Equal(t, before, len(h.ctrl.Remaining()))
	assert.Equal(t, StateActive, h.ctrl.State())
}

func TestConcurrentLastEliminationTriggersOnce(t *testing.T) {
	h := newHarness(t, Chain{})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleTwo", Targets: targets("A")}))

	var wg sync.WaitGroup
	var mu sync.Mutex
	removed := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h.ctrl.EliminateTarget("A") {
				mu.Lock()
				removed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, h.rec.count("ui:cancel"))
	assert.Equal(t, 1, h.clock.Pending())
}

func TestCancelRevokesPendingResolve(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})
	require.NoError(t, h.ctrl.Initialize(Definition{
		ID:           "PuzzleOne",
		Targets:      targets("A"),
		HasSuccessor: true,
	}))
	require.Equal(t, 1, h.bus.Count(bus.GameOver))

	h.ctrl.EliminateTarget("A")
	require.True(t, h.ctrl.ResolvePending())

	h.ctrl.Cancel()
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.False(t, h.ctrl.ResolvePending())
	assert.Equal(t, 0, h.bus.Count(bus.GameOver), "controller subscriptions are removed")

	h.clock.Advance(time.Minute)
	assert.Empty(t, h.rec.sceneLoads())

	// Cancel twice is harmless.
	h.ctrl.Cancel()
}

func TestCancelWithWallClockNeverFires(t *testing.T) {
	rec := &recorder{}
	ctrl := NewController(Config{
		Chain:         Chain{},
		Collaborators: Collaborators{Scenes: rec, Audio: rec},
		Scheduler:     WallScheduler{},
		ResolveDelay:  20 * time.Millisecond,
	})
	require.NoError(t, ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A")}))

	ctrl.EliminateTarget("A")
	ctrl.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.sceneLoads())
}

func TestWallClockResolveFires(t *testing.T) {
	rec := &recorder{}
	ctrl := NewController(Config{
		Collaborators: Collaborators{Scenes: rec},
		ResolveDelay:  10 * time.Millisecond,
	})
	defer ctrl.Cancel()
	require.NoError(t, ctrl.Initialize(Definition{ID: "PuzzleEight", Targets: targets("A")}))

	ctrl.EliminateTarget("A")

	assert.Eventually(t, func() bool {
		return ctrl.State() == StateWon
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{DefaultWinScene}, rec.sceneLoads())
}

func TestDoubleInitializeRejected(t *testing.T) {
	h := newHarness(t, Chain{})
	def := Definition{ID: "PuzzleOne", Targets: targets("A")}

	require.NoError(t, h.ctrl.Initialize(def))
	err := h.ctrl.Initialize(Definition{ID: "PuzzleTwo", Targets: targets("B")})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	id, ok := h.ctrl.Puzzle()
	assert.True(t, ok)
	assert.Equal(t, PuzzleID("PuzzleOne"), id)

	h.ctrl.Cancel()
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleTwo", Targets: targets("B")}))
	assert.Equal(t, targets("B"), h.ctrl.Remaining())
}

func TestMissingSuccessorIsConfigError(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})

	err := h.ctrl.Initialize(Definition{ID: "PuzzleSix", Targets: targets("A"), HasSuccessor: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSuccessor)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, PuzzleID("PuzzleSix"), cfgErr.Puzzle)
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Empty(t, h.rec.calls, "no collaborator is touched for an unplayable puzzle")
}

func TestEmptyTargetsRejected(t *testing.T) {
	h := newHarness(t, Chain{})
	err := h.ctrl.Initialize(Definition{ID: "PuzzleOne"})
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestEliminateWhileIdleIgnored(t *testing.T) {
	events.Clear()
	h := newHarness(t, Chain{})

	assert.False(t, h.ctrl.EliminateTarget("A"))
	ignored := events.Find("target.ignored")
	require.Len(t, ignored, 1)
	assert.Equal(t, "state_idle", ignored[0].Fields["reason"])
}

func TestEliminateDuringTransitionIgnored(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A"), HasSuccessor: true}))
	h.ctrl.EliminateTarget("A")
	h.clock.Advance(DefaultResolveDelay)
	require.Equal(t, StateTransitioning, h.ctrl.State())

	assert.False(t, h.ctrl.EliminateTarget("A"))
	assert.Equal(t, StateTransitioning, h.ctrl.State())
}

func TestLostGameRevokesResolve(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A", "B"), HasSuccessor: true}))

	h.ctrl.EliminateTarget("A")
	h.ctrl.EliminateTarget("B")
	h.bus.EndGame(false)

	h.clock.Advance(time.Minute)
	assert.Empty(t, h.rec.sceneLoads())
	assert.False(t, h.ctrl.ResolvePending())
}

func TestLostGameIgnoresLaterEliminations(t *testing.T) {
	h := newHarness(t, Chain{})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A", "B")}))

	h.bus.EndGame(false)

	assert.False(t, h.ctrl.EliminateTarget("A"))
	assert.Equal(t, targets("A", "B"), h.ctrl.Remaining())
}

func TestOutsideWinStopsPlay(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A", "B"), HasSuccessor: true}))

	h.ctrl.EliminateTarget("A")
	h.bus.EndGame(true)

	assert.False(t, h.ctrl.EliminateTarget("B"))
	h.clock.Advance(time.Minute)
	assert.Empty(t, h.rec.sceneLoads())
	assert.Equal(t, StateActive, h.ctrl.State())
}

func TestScoreNotStoppedWhenSilent(t *testing.T) {
	h := newHarness(t, Chain{})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A")}))
	h.rec.StopBackgroundScore()
	h.rec.calls = nil

	h.ctrl.EliminateTarget("A")
	h.clock.Advance(DefaultResolveDelay)

	assert.Equal(t, 0, h.rec.count("score:stop"))
}

func TestSubscriberMayCallBackIntoController(t *testing.T) {
	h := newHarness(t, Chain{"PuzzleOne": "PuzzleTwo"})
	reentered := false
	h.bus.OnNextPuzzle(func(bus.SceneRef) error {
		reentered = !h.ctrl.EliminateTarget("A")
		return nil
	})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleOne", Targets: targets("A"), HasSuccessor: true}))

	h.ctrl.EliminateTarget("A")
	h.clock.Advance(DefaultResolveDelay)

	assert.True(t, reentered)
	assert.Equal(t, []string{"PuzzleTwo"}, h.rec.sceneLoads())
}

func TestInitializeJournalsTransitions(t *testing.T) {
	events.Clear()
	h := newHarness(t, Chain{})
	require.NoError(t, h.ctrl.Initialize(Definition{ID: "PuzzleEight", Targets: targets("A")}))
	h.ctrl.EliminateTarget("A")
	h.clock.Advance(DefaultResolveDelay)

	var names []string
	for _, e := range events.Snapshot() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"puzzle.initialized",
		"target.eliminated",
		"puzzle.solving",
		"puzzle.won",
		"scene.load_requested",
	}, names)
}
