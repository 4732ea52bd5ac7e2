package event

import "fmt"

// Type is the broad category of an event.
type Type int

const (
	Economic Type = iota
	Social
	Agricultural
	Environmental
	Time
	System

	// NumTypes is the number of categories.
	NumTypes = int(System) + 1
)

// AllTypes is the subscription filter matching every category.
const AllTypes Type = -1

var typeNames = [NumTypes]string{"Economic", "Social", "Agricultural", "Environmental", "Time", "System"}

func (t Type) String() string {
	if t == AllTypes {
		return "All"
	}
	if t < 0 || int(t) >= NumTypes {
		return "Unknown"
	}
	return typeNames[t]
}

// Valid reports whether t is a concrete category.
func (t Type) Valid() bool { return t >= 0 && int(t) < NumTypes }

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseType accepts a category name, or "All" for AllTypes.
func ParseType(s string) (Type, error) {
	if s == "All" {
		return AllTypes, nil
	}
	for i, n := range typeNames {
		if n == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Subtype is the specific kind of event within its Type.
type Subtype int

const (
	TradeOffered Subtype = iota
	TradeAccepted
	TradeDeclined
	CurrencyGained
	CurrencySpent
	PriceChanged

	ConversationStarted
	ConversationEnded
	RelationshipChanged
	GiftGiven
	HelpRequested
	HelpProvided

	CropPlanted
	CropWatered
	CropHarvested
	CropWithered
	CropGrowthStage

	WeatherChanged
	TimeAdvanced
	SeasonChanged
	DayStarted

	MorningStarted
	AfternoonStarted
	EveningStarted
	NightStarted
	NewDay
	NewSeason
	NewYear

	EntityCreated
	EntityDestroyed
	GameSaved
	GameLoaded

	numSubtypes
)

var subtypeNames = [numSubtypes]string{
	"TradeOffered", "TradeAccepted", "TradeDeclined", "CurrencyGained", "CurrencySpent", "PriceChanged",
	"ConversationStarted", "ConversationEnded", "RelationshipChanged", "GiftGiven", "HelpRequested", "HelpProvided",
	"CropPlanted", "CropWatered", "CropHarvested", "CropWithered", "CropGrowthStage",
	"WeatherChanged", "TimeAdvanced", "SeasonChanged", "DayStarted",
	"MorningStarted", "AfternoonStarted", "EveningStarted", "NightStarted", "NewDay", "NewSeason", "NewYear",
	"EntityCreated", "EntityDestroyed", "GameSaved", "GameLoaded",
}

func (s Subtype) String() string {
	if s < 0 || s >= numSubtypes {
		return "Unknown"
	}
	return subtypeNames[s]
}

// Type returns the category a subtype belongs to.
func (s Subtype) Type() Type {
	switch {
	case s <= PriceChanged:
		return Economic
	case s <= HelpProvided:
		return Social
	case s <= CropGrowthStage:
		return Agricultural
	case s <= DayStarted:
		return Environmental
	case s <= NewYear:
		return Time
	default:
		return System
	}
}

func (s Subtype) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Subtype) UnmarshalText(b []byte) error {
	for i, n := range subtypeNames {
		if n == string(b) {
			*s = Subtype(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event subtype %q", b)
}
