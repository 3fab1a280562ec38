package translation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

type fakeCompleter struct {
	system string
	user   string
	answer string
	err    error
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.answer, f.err
}

func sampleGame() metadata.Game {
	category := 0
	return metadata.Game{
		ID:               1026,
		Name:             "The Legend of Zelda: A Link to the Past",
		Slug:             "zelda-alttp",
		Summary:          "Link sets out.",
		FirstReleaseDate: 690940800,
		Category:         &category,
		Rating:           91,
		Platforms:        []uint64{19},
		Collection:       &metadata.Collection{ID: 106, Name: "The Legend of Zelda", Slug: "zelda"},
		Genres:           []metadata.Genre{{ID: 31, Name: "Adventure", Slug: "adventure"}},
		Cover:            &metadata.Cover{ID: 1, URL: "//c.jpg"},
		Videos:           []metadata.Video{{ID: 8, Name: "Trailer", VideoID: "abc"}},
		AlternativeNames: []metadata.AlternativeName{{ID: 3, Name: "La Légende de Zelda"}},
	}
}

func TestNewResolvesLanguageName(t *testing.T) {
	tr, err := New(&fakeCompleter{}, "fr", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Language() != "French" {
		t.Fatalf("unexpected language name %q", tr.Language())
	}
	if _, err := New(&fakeCompleter{}, "not a tag!", nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranslateGamePromptIsReduced(t *testing.T) {
	fake := &fakeCompleter{answer: `{"id":1026,"name":"La Légende de Zelda"}`}
	tr, err := New(fake, "fr", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := tr.TranslateGame(context.Background(), sampleGame()); err != nil {
		t.Fatalf("TranslateGame: %v", err)
	}
	if fake.system != SystemPrompt {
		t.Fatalf("unexpected system prompt %q", fake.system)
	}
	instruction, payload, ok := strings.Cut(fake.user, ":\n")
	if !ok {
		t.Fatalf("prompt missing separator: %q", fake.user)
	}
	if !strings.HasPrefix(instruction, "Translate this game into French") || !strings.Contains(instruction, `delete "alternative_names"`) {
		t.Fatalf("unexpected instruction %q", instruction)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(payload), &sent); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	for _, removed := range []string{"slug", "first_release_date", "category", "rating", "platforms", "cover", "updated_at", "name_translated"} {
		if _, present := sent[removed]; present {
			t.Fatalf("field %q should not be sent", removed)
		}
	}
	collection, _ := sent["collection"].(map[string]any)
	if len(collection) != 2 || collection["name"] != "The Legend of Zelda" {
		t.Fatalf("nested entity should keep id and name only: %v", collection)
	}
}

func TestTranslateGameMapsAnswer(t *testing.T) {
	fake := &fakeCompleter{answer: "```json\n" + `{
		"id": 1026,
		"name": "La Légende de Zelda",
		"summary": "Link part.",
		"collection": {"id": 106, "name": "La Légende de Zelda"},
		"genres": [{"id": 31, "name": "Aventure"}],
		"videos": [{"id": 8, "name": "Bande-annonce"}]
	}` + "\n```"}
	tr, err := New(fake, "fr", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	base := sampleGame()
	got, err := tr.TranslateGame(context.Background(), base)
	if err != nil {
		t.Fatalf("TranslateGame: %v", err)
	}
	if got.Name != base.Name || got.NameTranslated != "La Légende de Zelda" {
		t.Fatalf("unexpected names %q / %q", got.Name, got.NameTranslated)
	}
	if got.SummaryTranslated != "Link part." || got.StorylineTranslated != "" {
		t.Fatalf("unexpected texts %+v", got)
	}
	if got.Collection.NameTranslated != "La Légende de Zelda" || got.Genres[0].NameTranslated != "Aventure" {
		t.Fatalf("nested names not mapped: %+v", got)
	}
	if got.Videos[0].NameTranslated != "Bande-annonce" || got.Videos[0].VideoID != "abc" {
		t.Fatalf("video not mapped: %+v", got.Videos[0])
	}
	if base.Collection.NameTranslated != "" || base.Genres[0].NameTranslated != "" {
		t.Fatal("input game must not be modified")
	}
}

func TestTranslateGameFailures(t *testing.T) {
	cases := []struct {
		name string
		fake *fakeCompleter
	}{
		{name: "completion error", fake: &fakeCompleter{err: errors.New("boom")}},
		{name: "not json", fake: &fakeCompleter{answer: "désolé"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := New(tc.fake, "fr", nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = tr.TranslateGame(context.Background(), sampleGame())
			if !errors.Is(err, services.ErrTranslation) {
				t.Fatalf("expected ErrTranslation, got %v", err)
			}
		})
	}
}

func TestTranslateCompany(t *testing.T) {
	fake := &fakeCompleter{answer: `{"id":70,"name":"Nintendo","description":"Éditeur japonais."}`}
	tr, err := New(fake, "fr", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := tr.TranslateCompany(context.Background(), metadata.Company{ID: 70, Name: "Nintendo", Description: "Japanese publisher.", Developed: []uint64{1}})
	if err != nil {
		t.Fatalf("TranslateCompany: %v", err)
	}
	if got.DescriptionTranslated != "Éditeur japonais." || len(got.Developed) != 1 {
		t.Fatalf("unexpected company %+v", got)
	}
	if !strings.HasPrefix(fake.user, "Translate this company into French:\n") {
		t.Fatalf("unexpected prompt %q", fake.user)
	}
	if strings.Contains(fake.user, "developed") {
		t.Fatalf("edge lists must not be sent: %q", fake.user)
	}
}
