package event

import (
	"fmt"

	"github.com/joeycumines/lifesim/internal/world"
)

// PayloadKind tags the concrete payload in serialized form.
type PayloadKind string

const (
	KindTrade        PayloadKind = "trade"
	KindRelationship PayloadKind = "relationship"
	KindCrop         PayloadKind = "crop"
	KindWeather      PayloadKind = "weather"
	KindCurrency     PayloadKind = "currency"
)

// Payload is variant-specific event detail.
type Payload interface {
	Kind() PayloadKind
}

type TradeData struct {
	ItemID       int    `json:"item_id"`
	Item         string `json:"item_name"`
	Quantity     int    `json:"quantity"`
	OfferedPrice int    `json:"offered_price"`
	AskingPrice  int    `json:"asking_price"`
	Accepted     bool   `json:"accepted"`
	Reason       string `json:"reason"`
}

type RelationshipData struct {
	Before int    `json:"relationship_before"`
	After  int    `json:"relationship_after"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

type CropData struct {
	Crop           string `json:"crop_type"`
	PlotX          int    `json:"plot_x"`
	PlotY          int    `json:"plot_y"`
	GrowthStage    int    `json:"growth_stage"`
	DaysToMaturity int    `json:"days_to_maturity"`
}

type WeatherData struct {
	From        world.Weather `json:"from_weather"`
	To          world.Weather `json:"to_weather"`
	Temperature float64       `json:"temperature"`
	Rainfall    float64       `json:"rainfall"`
}

type CurrencyData struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

func (*TradeData) Kind() PayloadKind        { return KindTrade }
func (*RelationshipData) Kind() PayloadKind { return KindRelationship }
func (*CropData) Kind() PayloadKind         { return KindCrop }
func (*WeatherData) Kind() PayloadKind      { return KindWeather }
func (*CurrencyData) Kind() PayloadKind     { return KindCurrency }

func newPayload(k PayloadKind) (Payload, error) {
	switch k {
	case KindTrade:
		return new(TradeData), nil
	case KindRelationship:
		return new(RelationshipData), nil
	case KindCrop:
		return new(CropData), nil
	case KindWeather:
		return new(WeatherData), nil
	case KindCurrency:
		return new(CurrencyData), nil
	}
	return nil, fmt.Errorf("unknown payload kind %q", k)
}
