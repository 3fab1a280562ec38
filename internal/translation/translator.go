package translation

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
	"ludotheque/internal/services/llm"
)

// Completer sends one system/user exchange and returns the assistant text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Translator fills the translated fields of metadata entities.
type Translator struct {
	completer    Completer
	tag          language.Tag
	languageName string
	logger       *slog.Logger
}

// New returns a translator targeting lang, a BCP 47 tag such as "fr".
func New(completer Completer, lang string, logger *slog.Logger) (*Translator, error) {
	if completer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "translation", "new", "completer required", nil)
	}
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "translation", "new", "parse language "+lang, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		name = tag.String()
	}
	return &Translator{completer: completer, tag: tag, languageName: name, logger: logger}, nil
}

// Language returns the English name of the target language, e.g. "French".
func (t *Translator) Language() string {
	return t.languageName
}

// Tag returns the target language tag.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// TranslateGame returns a copy of game with its translated fields set from
// the model's answer. Base fields are left untouched.
func (t *Translator) TranslateGame(ctx context.Context, game metadata.Game) (metadata.Game, error) {
	prompt, err := render(gameInstruction(t.languageName), reduceGame(game))
	if err != nil {
		return game, services.Wrap(services.ErrTranslation, "translation", "render prompt", "", err)
	}
	var answer promptGame
	if err := t.ask(ctx, prompt, &answer); err != nil {
		return game, err
	}

	out := game
	out.NameTranslated = strings.TrimSpace(answer.Name)
	out.StorylineTranslated = strings.TrimSpace(answer.Storyline)
	out.SummaryTranslated = strings.TrimSpace(answer.Summary)
	out.Collection = overlayOne(game.Collection, answer.Collection)
	out.Franchise = overlayOne(game.Franchise, answer.Franchise)
	out.Genres = overlayList(game.Genres, answer.Genres)
	out.Themes = overlayList(game.Themes, answer.Themes)
	out.Keywords = overlayList(game.Keywords, answer.Keywords)
	if len(game.Videos) > 0 {
		names := indexNames(answer.Videos)
		out.Videos = make([]metadata.Video, len(game.Videos))
		for i, video := range game.Videos {
			video.NameTranslated = names[video.ID]
			out.Videos[i] = video
		}
	}

	t.logger.Debug("game translated",
		logging.Uint64(logging.FieldGameID, game.ID),
		logging.String("language", t.tag.String()),
		logging.String("name_translated", out.NameTranslated),
	)
	return out, nil
}

// TranslateCompany returns a copy of company with its translated name and description set.
func (t *Translator) TranslateCompany(ctx context.Context, company metadata.Company) (metadata.Company, error) {
	prompt, err := render(companyInstruction(t.languageName), promptCompany{
		ID:          company.ID,
		Name:        company.Name,
		Description: company.Description,
	})
	if err != nil {
		return company, services.Wrap(services.ErrTranslation, "translation", "render prompt", "", err)
	}
	var answer promptCompany
	if err := t.ask(ctx, prompt, &answer); err != nil {
		return company, err
	}
	out := company
	out.NameTranslated = strings.TrimSpace(answer.Name)
	out.DescriptionTranslated = strings.TrimSpace(answer.Description)
	return out, nil
}

func (t *Translator) ask(ctx context.Context, prompt string, target any) error {
	content, err := t.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return services.Wrap(services.ErrTranslation, "translation", "complete", "", err)
	}
	if err := llm.DecodeLLMJSON(content, target); err != nil {
		return services.Wrap(services.ErrTranslation, "translation", "decode answer", "", err)
	}
	return nil
}

func overlayOne(base *metadata.Named, answer *promptNamed) *metadata.Named {
	if base == nil {
		return nil
	}
	out := *base
	if answer != nil && (answer.ID == 0 || answer.ID == base.ID) {
		out.NameTranslated = strings.TrimSpace(answer.Name)
	}
	return &out
}

func overlayList(base []metadata.Named, answer []promptNamed) []metadata.Named {
	if len(base) == 0 {
		return base
	}
	names := indexNames(answer)
	out := make([]metadata.Named, len(base))
	for i, item := range base {
		item.NameTranslated = names[item.ID]
		out[i] = item
	}
	return out
}

func indexNames(items []promptNamed) map[uint64]string {
	names := make(map[uint64]string, len(items))
	for _, item := range items {
		names[item.ID] = strings.TrimSpace(item.Name)
	}
	return names
}
