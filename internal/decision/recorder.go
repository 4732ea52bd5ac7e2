package decision

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joeycumines/lifesim/internal/world"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recorder creates records and appends them to its Log.
type Recorder struct {
	log    *Log
	logger *slog.Logger
}

// NewRecorder returns a recorder writing to log. A nil log gets a new one of
// DefaultLogCapacity; a nil logger uses slog.Default.
func NewRecorder(log *Log, logger *slog.Logger) *Recorder {
	if log == nil {
		log = NewLog(DefaultLogCapacity)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{log: log, logger: logger}
}

func (r *Recorder) Log() *Log { return r.log }

// Record builds a record via NewRecord and logs it. The returned record is a
// copy carrying the assigned id.
func (r *Recorder) Record(snap *Snapshot, options []Option, chosen int, reasoning string) (*Record, error) {
	rec, err := NewRecord(snap, options, chosen, reasoning)
	if err != nil {
		r.logger.Warn("decision rejected", "error", err)
		return nil, err
	}
	r.log.Append(rec)
	r.logger.Debug("decision recorded",
		"id", rec.ID,
		"actor", rec.ActorName,
		"action", rec.Action.String(),
		"options", len(rec.Options),
	)
	return rec.Clone(), nil
}

// Complete sets the outcome of record id.
func (r *Recorder) Complete(id uint64, succeeded bool, actualUtility float64, description string) bool {
	ok := r.log.Complete(id, succeeded, actualUtility, description)
	if !ok {
		r.logger.Debug("decision outcome not recorded", "id", id)
	}
	return ok
}

// Decide evaluates the standard options for snap and records a choice with
// an explanation. A valid preferred action, None included, is chosen and
// added to the options when absent; NoPreference picks the best scoring
// option.
func (r *Recorder) Decide(snap *Snapshot, preferred Action) (*Record, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	options := Evaluate(snap)
	chosen := -1
	if preferred.Valid() {
		chosen = indexOf(options, preferred)
		if chosen < 0 {
			if len(options) == MaxOptions {
				options = options[:MaxOptions-1]
			}
			options = append(options, Option{
				Action:        preferred,
				Description:   preferred.String() + " (behavior)",
				SuccessChance: 1,
				Target:        NoTarget,
			})
			chosen = len(options) - 1
		}
	}
	if chosen < 0 {
		chosen = Best(options)
	}
	return r.Record(snap, options, chosen, Explain(snap, options, chosen))
}

func indexOf(options []Option, a Action) int {
	for i, o := range options {
		if o.Action == a {
			return i
		}
	}
	return -1
}

// Score is the expected value of an option.
func Score(o Option) float64 { return o.Utility*o.SuccessChance - o.Cost/10 }

// Best returns the index of the highest scoring option, the first on ties,
// or -1 for none.
func Best(options []Option) int {
	best := -1
	for i, o := range options {
		if best < 0 || Score(o) > Score(options[best]) {
			best = i
		}
	}
	return best
}

func isFarmer(s *Snapshot) bool { return s.HasOccupation && strings.EqualFold(s.Occupation, "farmer") }

func daytime(t world.TimeOfDay) bool { return t == world.Morning || t == world.Afternoon }

// Evaluate scores the standard actions available to the actor described by
// s. Needs drive eat, rest and talk; occupation and the clock drive work.
func Evaluate(s *Snapshot) []Option {
	if s == nil {
		return nil
	}
	var options []Option
	add := func(a Action, desc string, utility, cost, chance float64, target int) {
		options = append(options, Option{
			Action:        a,
			Description:   desc,
			Utility:       max(0, utility),
			Cost:          cost,
			SuccessChance: chance,
			Target:        target,
		})
	}

	hasItems := s.HasInventory && s.InventoryItems > 0
	friends := s.Friends()

	if s.HasNeeds {
		chance := 0.2
		if hasItems {
			chance = 0.9
		}
		add(Eat, "Eat from inventory", 100-s.Hunger, 0, chance, NoTarget)

		rest := 100 - s.Energy
		if s.TimeOfDay == world.Night {
			rest += 20
		}
		add(Rest, "Rest and recover energy", rest, 0, 1, NoTarget)

		talk, chance, target := 100-s.Social+10*float64(len(friends)), 0.1, NoTarget
		if n, ok := dearest(s.Nearby); ok {
			chance, target = 0.8, n.ID
		}
		add(Talk, "Talk to someone nearby", talk, 0, chance, target)
	}

	work := 30.0
	if s.HasOccupation {
		work += 20
	}
	if daytime(s.TimeOfDay) {
		work += 10
	}
	if s.HasNeeds && s.Energy < world.NeedThreshold {
		work -= 30
	}
	add(Work, "Work for currency", work, 10, 0.9, NoTarget)

	if isFarmer(s) {
		harvest := 35.0
		if s.TimeOfDay == world.Morning {
			harvest += 15
		}
		add(Harvest, "Harvest ready crops", harvest, 15, 0.8, NoTarget)
		if s.Season == world.Spring {
			add(Plant, "Plant seeds", 45, 10, 0.9, NoTarget)
		}
		if s.Weather == world.Sunny || s.Weather == world.Drought {
			add(Water, "Water crops", 30, 5, 0.95, NoTarget)
		}
	}

	if s.HasCurrency && s.Currency >= world.CurrencyReserve {
		add(Trade, "Trade at the market", 25, 5, 0.7, NoTarget)
	}
	if len(friends) > 0 && hasItems {
		add(GiveGift, "Give a gift to "+friends[0].Name, 20, 5, 0.9, friends[0].ID)
	}
	add(Wait, "Wait", 5, 0, 1, NoTarget)
	return options
}

// dearest returns the nearby actor with the highest relationship.
func dearest(nearby []NearbyActor) (NearbyActor, bool) {
	if len(nearby) == 0 {
		return NearbyActor{}, false
	}
	best := nearby[0]
	for _, n := range nearby[1:] {
		if n.Relationship > best.Relationship {
			best = n
		}
	}
	return best, true
}

// Explain describes why options[chosen] was picked given s.
func Explain(s *Snapshot, options []Option, chosen int) string {
	if s == nil || chosen < 0 || chosen >= len(options) {
		return ""
	}
	c := options[chosen]
	title := cases.Title(language.English)
	var b strings.Builder
	b.WriteString(s.ActorName)
	if s.HasOccupation && s.Occupation != "" {
		fmt.Fprintf(&b, " the %s", title.String(s.Occupation))
	}
	fmt.Fprintf(&b, " chose %s (utility %.1f, %.0f%% likely) from %d options on day %d, %s.",
		c.Action, c.Utility, c.SuccessChance*100, len(options), s.Day, s.TimeOfDay)

	var facts []string
	if s.HasNeeds {
		if s.Hunger < world.NeedThreshold {
			facts = append(facts, fmt.Sprintf("hunger %.0f is below %d", s.Hunger, world.NeedThreshold))
		}
		if s.Energy < world.NeedThreshold {
			facts = append(facts, fmt.Sprintf("energy %.0f is below %d", s.Energy, world.NeedThreshold))
		}
		if s.Social < world.NeedThreshold {
			facts = append(facts, fmt.Sprintf("social %.0f is below %d", s.Social, world.NeedThreshold))
		}
	}
	if s.HasInventory {
		facts = append(facts, fmt.Sprintf("carrying %d of %d item stacks", s.InventoryItems, s.InventoryCapacity))
	}
	if n := len(s.Friends()); n > 0 {
		facts = append(facts, fmt.Sprintf("%d friends nearby", n))
	}
	if s.HasGoal {
		facts = append(facts, "goal: "+title.String(s.Goal))
	}
	if len(facts) > 0 {
		fmt.Fprintf(&b, " Context: %s.", strings.Join(facts, "; "))
	}

	runnerUp := -1
	for i, o := range options {
		if i != chosen && (runnerUp < 0 || Score(o) > Score(options[runnerUp])) {
			runnerUp = i
		}
	}
	if runnerUp >= 0 {
		fmt.Fprintf(&b, " Next best: %s (utility %.1f).", options[runnerUp].Action, options[runnerUp].Utility)
	}
	return b.String()
}
