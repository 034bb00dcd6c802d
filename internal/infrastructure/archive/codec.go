package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/wicketlabs/scorebook/internal/usecase"
)

// documentCodec decodes with copied strings. Parse buffers are pooled, so
// nothing decoded may alias them.
var documentCodec = sonic.ConfigStd

var nullLiteral = []byte("null")

type documentEnvelope struct {
	Info    infoEnvelope     `json:"info"`
	Innings []inningEnvelope `json:"innings" validate:"omitempty,dive"`
}

type infoEnvelope struct {
	Season        *looseText       `json:"season"`
	Venue         *string          `json:"venue"`
	City          *string          `json:"city"`
	Dates         []string         `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	MatchType     *string          `json:"match_type"`
	BallsPerOver  *int64           `json:"balls_per_over"`
	Teams         []string         `json:"teams" validate:"required,len=2,dive,required"`
	Toss          tossEnvelope     `json:"toss"`
	Outcome       outcomeEnvelope  `json:"outcome"`
	PlayerOfMatch []string         `json:"player_of_match"`
	Officials     rawObject        `json:"officials"`
	Registry      registryEnvelope `json:"registry"`
}

type tossEnvelope struct {
	Winner   string `json:"winner" validate:"required"`
	Decision string `json:"decision" validate:"required"`
}

type outcomeEnvelope struct {
	Winner *string       `json:"winner"`
	By     orderedObject `json:"by"`
}

type registryEnvelope struct {
	People orderedObject `json:"people"`
}

type inningEnvelope struct {
	Team  string         `json:"team" validate:"required"`
	Overs []overEnvelope `json:"overs" validate:"omitempty,dive"`
}

type overEnvelope struct {
	Number     *int64             `json:"over" validate:"required"`
	Deliveries []deliveryEnvelope `json:"deliveries" validate:"omitempty,dive"`
}

type deliveryEnvelope struct {
	Batter     string           `json:"batter" validate:"required"`
	Bowler     string           `json:"bowler" validate:"required"`
	NonStriker string           `json:"non_striker" validate:"required"`
	Runs       *runsEnvelope    `json:"runs" validate:"required"`
	Extras     orderedObject    `json:"extras"`
	Wickets    []wicketEnvelope `json:"wickets" validate:"omitempty,dive"`
}

type runsEnvelope struct {
	Batter int64 `json:"batter"`
	Extras int64 `json:"extras"`
	Total  int64 `json:"total"`
}

type wicketEnvelope struct {
	Kind      string            `json:"kind" validate:"required"`
	PlayerOut string            `json:"player_out"`
	Fielders  []fielderEnvelope `json:"fielders" validate:"omitempty,dive"`
}

type fielderEnvelope struct {
	Name string `json:"name" validate:"required"`
}

// looseText accepts JSON strings and bare numbers, both of which appear for
// season labels ("2007/08" vs 2008).
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := documentCodec.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*t = looseText(value)
		return nil
	}
	*t = looseText(trimmed)
	return nil
}

// rawObject keeps a JSON fragment verbatim, copied out of the parse buffer.
type rawObject []byte

func (r *rawObject) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], trimmed...)
	return nil
}

// orderedObject captures an object's fields in document order. First-key
// semantics (outcome margins, extras, the registry) depend on an order Go
// maps would throw away, so fields are scanned token by token.
type orderedObject []objectField

type objectField struct {
	key   string
	value json.RawMessage
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	open, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object")
	}

	fields := (*o)[:0]
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", keyToken)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fields = append(fields, objectField{key: key, value: value})
	}
	*o = fields
	return nil
}

func mapDocument(env documentEnvelope) (usecase.MatchDocument, error) {
	info, err := mapInfo(env.Info)
	if err != nil {
		return usecase.MatchDocument{}, err
	}

	var innings []usecase.DocumentInning
	for i, docInning := range env.Innings {
		var overs []usecase.DocumentOver
		for _, over := range docInning.Overs {
			var deliveries []usecase.DocumentDelivery
			for _, docDelivery := range over.Deliveries {
				row, err := mapDelivery(docDelivery)
				if err != nil {
					return usecase.MatchDocument{}, fmt.Errorf("inning %d over %d: %w", i+1, overNumber(over), err)
				}
				deliveries = append(deliveries, row)
			}
			overs = append(overs, usecase.DocumentOver{
				Number:     overNumber(over),
				Deliveries: deliveries,
			})
		}
		innings = append(innings, usecase.DocumentInning{
			Team:  docInning.Team,
			Overs: overs,
		})
	}

	return usecase.MatchDocument{
		Info:    info,
		Innings: innings,
	}, nil
}

func mapInfo(env infoEnvelope) (usecase.MatchInfo, error) {
	var outcome []usecase.OutcomeEntry
	for _, field := range env.Outcome.By {
		margin, err := intValue(field.value)
		if err != nil {
			return usecase.MatchInfo{}, fmt.Errorf("outcome margin %q: %w", field.key, err)
		}
		outcome = append(outcome, usecase.OutcomeEntry{Result: field.key, Margin: margin})
	}

	var people []usecase.PersonEntry
	for _, field := range env.Registry.People {
		id, err := stringValue(field.value)
		if err != nil {
			return usecase.MatchInfo{}, fmt.Errorf("registry entry %q: %w", field.key, err)
		}
		people = append(people, usecase.PersonEntry{Name: field.key, ID: id})
	}

	return usecase.MatchInfo{
		Season:        textPtr(env.Season),
		Venue:         env.Venue,
		City:          env.City,
		Dates:         env.Dates,
		MatchType:     env.MatchType,
		BallsPerOver:  env.BallsPerOver,
		Teams:         env.Teams,
		TossWinner:    env.Toss.Winner,
		TossDecision:  env.Toss.Decision,
		Winner:        env.Outcome.Winner,
		Outcome:       outcome,
		PlayerOfMatch: env.PlayerOfMatch,
		People:        people,
		Officials:     []byte(env.Officials),
	}, nil
}

func mapDelivery(env deliveryEnvelope) (usecase.DocumentDelivery, error) {
	var extras []usecase.ExtraEntry
	for _, field := range env.Extras {
		runs, err := intValue(field.value)
		if err != nil {
			return usecase.DocumentDelivery{}, fmt.Errorf("extras %q: %w", field.key, err)
		}
		extras = append(extras, usecase.ExtraEntry{Kind: field.key, Runs: runs})
	}

	var wickets []usecase.WicketEntry
	for _, wicket := range env.Wickets {
		var fielders []string
		for _, fielder := range wicket.Fielders {
			fielders = append(fielders, fielder.Name)
		}
		wickets = append(wickets, usecase.WicketEntry{
			Kind:      wicket.Kind,
			PlayerOut: wicket.PlayerOut,
			Fielders:  fielders,
		})
	}

	var runs runsEnvelope
	if env.Runs != nil {
		runs = *env.Runs
	}

	return usecase.DocumentDelivery{
		Batter:     env.Batter,
		Bowler:     env.Bowler,
		NonStriker: env.NonStriker,
		RunsBatter: runs.Batter,
		RunsExtras: runs.Extras,
		RunsTotal:  runs.Total,
		Extras:     extras,
		Wickets:    wickets,
	}, nil
}

func overNumber(env overEnvelope) int64 {
	if env.Number == nil {
		return 0
	}
	return *env.Number
}

func textPtr(value *looseText) *string {
	if value == nil {
		return nil
	}
	text := string(*value)
	return &text
}

func intValue(raw json.RawMessage) (int64, error) {
	text := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %s", raw)
	}
	return value, nil
}

func stringValue(raw json.RawMessage) (string, error) {
	var value string
	if err := documentCodec.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("expected a string, got %s", raw)
	}
	return value, nil
}
