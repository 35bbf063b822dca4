package puzzle

//go:generate mockgen -destination=mock/mock_collaborators.go -package=mockpuzzle -source=collaborators.go

// SceneLoader replaces the current scene with the named puzzle or terminal scene.
type SceneLoader interface {
	RequestSceneLoad(id string)
}

// Audio controls the puzzle's background score.
type Audio interface {
	PlayBackgroundScore()
	StopBackgroundScore()
	ScorePlaying() bool
}

// UI controls the in-game overlay.
type UI interface {
	SetActionText(text string)
	CancelProgressDisplay()
}

// Player applies session values to the player character.
type Player interface {
	SetPlayerHealth(value int)
	SetPlayerAmmo(value int)
}

// Session is the in-memory session record.
type Session interface {
	Health() int
	Ammo() int
	RecordCurrentPuzzle(id string)
}

// Collaborators bundles the fire-and-forget operations the controller
// invokes. Nil fields are replaced with no-ops.
type Collaborators struct {
	Scenes  SceneLoader
	Audio   Audio
	UI      UI
	Player  Player
	Session Session
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Scenes == nil {
		c.Scenes = nopScenes{}
	}
	if c.Audio == nil {
		c.Audio = nopAudio{}
	}
	if c.UI == nil {
		c.UI = nopUI{}
	}
	if c.Player == nil {
		c.Player = nopPlayer{}
	}
	if c.Session == nil {
		c.Session = nopSession{}
	}
	return c
}

type nopScenes struct{}

func (nopScenes) RequestSceneLoad(string) {}

type nopAudio struct{}

func (nopAudio) PlayBackgroundScore() {}
func (nopAudio) StopBackgroundScore() {}
func (nopAudio) ScorePlaying() bool   { return false }

type nopUI struct{}

func (nopUI) SetActionText(string)   {}
func (nopUI) CancelProgressDisplay() {}

type nopPlayer struct{}

func (nopPlayer) SetPlayerHealth(int) {}
func (nopPlayer) SetPlayerAmmo(int)   {}

type nopSession struct{}

func (nopSession) Health() int                { return 0 }
func (nopSession) Ammo() int                  { return 0 }
func (nopSession) RecordCurrentPuzzle(string) {}
