package game

// Role distinguishes the game's creator from everyone else.
type Role string

const (
	RoleOwner       Role = "Owner"
	RoleParticipant Role = "Player"
)

const startingLives = 2

// Player is one roster entry. Lives only ever go down; a player at zero is
// removed from the roster during turn resolution.
type Player struct {
	Identity string
	Role     Role
	Lives    int
}

func NewPlayer(identity string, role Role) *Player {
	return &Player{
		Identity: identity,
		Role:     role,
		Lives:    startingLives,
	}
}
