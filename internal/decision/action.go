package decision

import "fmt"

// Action is the kind of thing an actor decided to do.
type Action int

const (
	Move Action = iota
	Talk
	Trade
	Work
	Rest
	Eat
	Plant
	Harvest
	Water
	GiveGift
	Wait
	None

	// NumActions is the number of action kinds.
	NumActions = int(None) + 1
)

// NoPreference is not an action: it asks Recorder.Decide for the best
// scoring option.
const NoPreference Action = -1

var actionNames = [NumActions]string{
	"Move", "Talk", "Trade", "Work", "Rest", "Eat", "Plant", "Harvest", "Water", "Give Gift", "Wait", "None",
}

func (a Action) String() string {
	if a < 0 || int(a) >= NumActions {
		return "Unknown"
	}
	return actionNames[a]
}

func (a Action) Valid() bool { return a >= 0 && int(a) < NumActions }

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAction maps a display name back to its Action.
func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if n == s {
			return Action(i), nil
		}
	}
	return None, fmt.Errorf("unknown action %q", s)
}
