package igdb

import (
	"strconv"
	"strings"
)

// gameFields is the expansion requested for every game lookup.
var gameFields = strings.Join([]string{
	"name", "slug", "alternative_names.*", "storyline", "summary",
	"first_release_date", "collection.*", "franchise.*", "category",
	"genres.*", "themes.*", "keywords.*", "platforms", "remakes",
	"remasters", "similar_games", "rating", "rating_count", "cover.*",
	"artworks.*", "screenshots.*", "videos.*", "updated_at",
}, ", ")

var companyFields = strings.Join([]string{
	"name", "slug", "description", "parent", "logo.*", "start_date",
	"developed", "published", "updated_at",
}, ", ")

var platformFields = strings.Join([]string{
	"name", "slug", "summary", "category", "platform_logo.*", "updated_at",
}, ", ")

// searchQuery renders the body of a title search, optionally restricted to one platform.
func searchQuery(title string, platform uint64) string {
	var b strings.Builder
	b.WriteString(`search "`)
	b.WriteString(escapeQuoted(title))
	b.WriteString(`"; fields `)
	b.WriteString(gameFields)
	b.WriteString(";")
	if platform > 0 {
		b.WriteString(" where platforms = (")
		b.WriteString(strconv.FormatUint(platform, 10))
		b.WriteString(");")
	}
	b.WriteString(" limit 1;")
	return b.String()
}

func byIDQuery(fields string, ids ...uint64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(id, 10))
	}
	where := parts[0]
	if len(parts) > 1 {
		where = "(" + strings.Join(parts, ",") + ")"
	}
	return "fields " + fields + "; where id = " + where + "; limit " + strconv.Itoa(max(len(ids), 1)) + ";"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuoted(value string) string {
	return quoteEscaper.Replace(strings.TrimSpace(value))
}
