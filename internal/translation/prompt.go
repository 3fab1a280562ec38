package translation

import (
	"encoding/json"
	"fmt"

	"ludotheque/internal/metadata"
)

// SystemPrompt is sent with every translation request.
const SystemPrompt = "You do what the user asks and only return json files."

type promptNamed struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type promptGame struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name"`
	Storyline  string        `json:"storyline,omitempty"`
	Summary    string        `json:"summary,omitempty"`
	Collection *promptNamed  `json:"collection,omitempty"`
	Franchise  *promptNamed  `json:"franchise,omitempty"`
	Genres     []promptNamed `json:"genres,omitempty"`
	Themes     []promptNamed `json:"themes,omitempty"`
	Keywords   []promptNamed `json:"keywords,omitempty"`
	Videos     []promptNamed `json:"videos,omitempty"`

	// Sent so the model can pick a localized title; the model is asked to drop it.
	AlternativeNames []metadata.AlternativeName `json:"alternative_names,omitempty"`
}

type promptCompany struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func gameInstruction(languageName string) string {
	return fmt.Sprintf(
		"Translate this game into %s (the name of the game should not be modified unless a %s alternative title is provided) and delete \"alternative_names\"",
		languageName, languageName,
	)
}

func companyInstruction(languageName string) string {
	return fmt.Sprintf("Translate this company into %s", languageName)
}

// reduceGame keeps only translatable text and the ids needed to map it back.
func reduceGame(game metadata.Game) promptGame {
	out := promptGame{
		ID:               game.ID,
		Name:             game.Name,
		Storyline:        game.Storyline,
		Summary:          game.Summary,
		Collection:       reduceNamed(game.Collection),
		Franchise:        reduceNamed(game.Franchise),
		Genres:           reduceNamedList(game.Genres),
		Themes:           reduceNamedList(game.Themes),
		Keywords:         reduceNamedList(game.Keywords),
		AlternativeNames: game.AlternativeNames,
	}
	for _, video := range game.Videos {
		if video.Name != "" {
			out.Videos = append(out.Videos, promptNamed{ID: video.ID, Name: video.Name})
		}
	}
	return out
}

func reduceNamed(n *metadata.Named) *promptNamed {
	if n == nil {
		return nil
	}
	return &promptNamed{ID: n.ID, Name: n.Name}
}

func reduceNamedList(items []metadata.Named) []promptNamed {
	if len(items) == 0 {
		return nil
	}
	out := make([]promptNamed, 0, len(items))
	for _, item := range items {
		out = append(out, promptNamed{ID: item.ID, Name: item.Name})
	}
	return out
}

// render produces "<instruction>:\n<json>".
func render(instruction string, payload any) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return instruction + ":\n" + string(encoded), nil
}
