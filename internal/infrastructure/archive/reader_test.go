package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wicketlabs/scorebook/internal/platform/logging"
	"github.com/wicketlabs/scorebook/internal/usecase"
)

const fullDocument = `{
  "meta": {"data_version": "2.0", "created": "2008-05-01", "revision": 1},
  "info": {
    "balls_per_over": 6,
    "city": "Bangalore",
    "dates": ["2008-04-18"],
    "match_type": "T20",
    "officials": {"umpires": ["Asad Rauf", "RE Koertzen"]},
    "outcome": {"by": {"runs": 140, "wickets": 3}, "winner": "Kolkata Knight Riders"},
    "player_of_match": ["BB McCullum"],
    "registry": {"people": {"BB McCullum": "ba607b88", "SC Ganguly": "f0c4ec39"}},
    "season": "2007/08",
    "teams": ["Royal Challengers Bangalore", "Kolkata Knight Riders"],
    "toss": {"decision": "field", "winner": "Royal Challengers Bangalore"},
    "venue": "M Chinnaswamy Stadium"
  },
  "innings": [
    {
      "team": "Kolkata Knight Riders",
      "overs": [
        {
          "over": 0,
          "deliveries": [
            {
              "batter": "SC Ganguly",
              "bowler": "P Kumar",
              "non_striker": "BB McCullum",
              "extras": {"legbyes": 1},
              "runs": {"batter": 0, "extras": 1, "total": 1}
            },
            {
              "batter": "BB McCullum",
              "bowler": "P Kumar",
              "non_striker": "SC Ganguly",
              "runs": {"batter": 0, "extras": 0, "total": 0},
              "wickets": [
                {"kind": "caught", "player_out": "BB McCullum", "fielders": [{"name": "JH Kallis"}]}
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func newTestReader(t *testing.T) (*Reader, string) {
	t.Helper()

	dir := t.TempDir()
	reader := NewReader(ReaderConfig{Dir: dir, Logger: logging.NewNop()})

	return reader, dir
}

func writeDocument(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReaderRead_FullDocument(t *testing.T) {
	t.Parallel()

	reader, dir := newTestReader(t)
	writeDocument(t, dir, "335982.json", fullDocument)

	doc, err := reader.Read(context.Background(), "335982.json")
	if err != nil {
		t.Fatalf("read document: %v", err)
	}

	info := doc.Info
	if info.Season == nil || *info.Season != "2007/08" {
		t.Fatalf("season mismatch: got=%v want=2007/08", info.Season)
	}
	if len(info.Teams) != 2 || info.Teams[0] != "Royal Challengers Bangalore" {
		t.Fatalf("teams mismatch: got=%v", info.Teams)
	}
	if info.TossWinner != "Royal Challengers Bangalore" || info.TossDecision != "field" {
		t.Fatalf("toss mismatch: got winner=%q decision=%q", info.TossWinner, info.TossDecision)
	}
	if info.Winner == nil || *info.Winner != "Kolkata Knight Riders" {
		t.Fatalf("winner mismatch: got=%v", info.Winner)
	}

	// only the first outcome entry matters downstream, but order must hold
	if len(info.Outcome) != 2 || info.Outcome[0].Result != "runs" || info.Outcome[0].Margin != 140 {
		t.Fatalf("outcome mismatch: got=%v", info.Outcome)
	}

	if len(info.People) != 2 {
		t.Fatalf("people count mismatch: got=%d want=2", len(info.People))
	}
	if info.People[0].Name != "BB McCullum" || info.People[0].ID != "ba607b88" {
		t.Fatalf("first registry entry mismatch: got=%+v", info.People[0])
	}
	if info.People[1].Name != "SC Ganguly" || info.People[1].ID != "f0c4ec39" {
		t.Fatalf("second registry entry mismatch: got=%+v", info.People[1])
	}

	if !strings.Contains(string(info.Officials), "umpires") {
		t.Fatalf("officials not carried through: got=%s", info.Officials)
	}

	if len(doc.Innings) != 1 {
		t.Fatalf("innings count mismatch: got=%d want=1", len(doc.Innings))
	}
	inning := doc.Innings[0]
	if inning.Team != "Kolkata Knight Riders" {
		t.Fatalf("inning team mismatch: got=%q", inning.Team)
	}
	if len(inning.Overs) != 1 || inning.Overs[0].Number != 0 {
		t.Fatalf("overs mismatch: got=%+v", inning.Overs)
	}

	deliveries := inning.Overs[0].Deliveries
	if len(deliveries) != 2 {
		t.Fatalf("deliveries count mismatch: got=%d want=2", len(deliveries))
	}

	first := deliveries[0]
	if first.Batter != "SC Ganguly" || first.RunsExtras != 1 || first.RunsTotal != 1 {
		t.Fatalf("first delivery mismatch: got=%+v", first)
	}
	if len(first.Extras) != 1 || first.Extras[0].Kind != "legbyes" || first.Extras[0].Runs != 1 {
		t.Fatalf("first delivery extras mismatch: got=%+v", first.Extras)
	}

	second := deliveries[1]
	if len(second.Wickets) != 1 {
		t.Fatalf("second delivery wickets mismatch: got=%+v", second.Wickets)
	}
	wicket := second.Wickets[0]
	if wicket.Kind != "caught" || wicket.PlayerOut != "BB McCullum" {
		t.Fatalf("wicket mismatch: got=%+v", wicket)
	}
	if len(wicket.Fielders) != 1 || wicket.Fielders[0] != "JH Kallis" {
		t.Fatalf("wicket fielders mismatch: got=%v", wicket.Fielders)
	}
}

func TestReaderRead_NumericSeasonAndSparseInfo(t *testing.T) {
	t.Parallel()

	reader, dir := newTestReader(t)
	writeDocument(t, dir, "sparse.json", `{
  "info": {
    "dates": ["2015-01-03"],
    "season": 2015,
    "teams": ["A", "B"],
    "toss": {"decision": "bat", "winner": "A"},
    "outcome": {"result": "no result"}
  },
  "innings": [
    {
      "team": "A",
      "overs": [
        {
          "over": 4,
          "deliveries": [
            {"batter": "x", "bowler": "y", "non_striker": "z", "extras": {}, "runs": {"batter": 0, "extras": 0, "total": 0}}
          ]
        }
      ]
    }
  ]
}`)

	doc, err := reader.Read(context.Background(), "sparse.json")
	if err != nil {
		t.Fatalf("read document: %v", err)
	}

	info := doc.Info
	if info.Season == nil || *info.Season != "2015" {
		t.Fatalf("numeric season mismatch: got=%v want=2015", info.Season)
	}
	if info.Winner != nil || len(info.Outcome) != 0 {
		t.Fatalf("expected empty outcome, got winner=%v outcome=%v", info.Winner, info.Outcome)
	}
	if info.Officials != nil {
		t.Fatalf("expected no officials, got=%s", info.Officials)
	}
	if info.Venue != nil || info.City != nil || info.MatchType != nil || info.BallsPerOver != nil {
		t.Fatalf("expected sparse info fields to stay nil")
	}

	// an empty extras object means no extras entries at all
	delivery := doc.Innings[0].Overs[0].Deliveries[0]
	if len(delivery.Extras) != 0 {
		t.Fatalf("extras mismatch: got=%+v want none", delivery.Extras)
	}
	if doc.Innings[0].Overs[0].Number != 4 {
		t.Fatalf("over number mismatch: got=%d want=4", doc.Innings[0].Overs[0].Number)
	}
}

func TestReaderRead_MalformedJSON(t *testing.T) {
	t.Parallel()

	reader, dir := newTestReader(t)
	writeDocument(t, dir, "broken.json", `{"info": not json at all`)

	_, err := reader.Read(context.Background(), "broken.json")
	if !errors.Is(err, usecase.ErrMalformedDocument) {
		t.Fatalf("error mismatch: got=%v want ErrMalformedDocument", err)
	}
}

func TestReaderRead_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	reader, dir := newTestReader(t)

	// one team instead of two, no toss
	writeDocument(t, dir, "invalid.json", `{
  "info": {
    "dates": ["2015-01-03"],
    "teams": ["A"]
  }
}`)

	_, err := reader.Read(context.Background(), "invalid.json")
	if !errors.Is(err, usecase.ErrMalformedDocument) {
		t.Fatalf("error mismatch: got=%v want ErrMalformedDocument", err)
	}
}

func TestReaderRead_MissingFile(t *testing.T) {
	t.Parallel()

	reader, _ := newTestReader(t)

	_, err := reader.Read(context.Background(), "absent.json")
	if !errors.Is(err, usecase.ErrMalformedDocument) {
		t.Fatalf("error mismatch: got=%v want ErrMalformedDocument", err)
	}
}

func TestReaderList_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	reader, dir := newTestReader(t)
	writeDocument(t, dir, "b.json", `{}`)
	writeDocument(t, dir, "a.json", `{}`)
	writeDocument(t, dir, "notes.txt", "not a document")
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err := reader.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(names) != 2 || names[0] != "a.json" || names[1] != "b.json" {
		t.Fatalf("listing mismatch: got=%v want=[a.json b.json]", names)
	}
}

func TestReaderList_MissingDirectory(t *testing.T) {
	t.Parallel()

	reader := NewReader(ReaderConfig{Dir: "/definitely/not/here", Logger: logging.NewNop()})

	if _, err := reader.List(context.Background()); err == nil {
		t.Fatalf("expected an error for a missing archive directory")
	}
}
