package filename

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		path string
		want Parsed
	}{
		{path: "/games/gba/Zelda [106, FR].zip", want: Parsed{Title: "Zelda", ID: 106, HasID: true, Language: "FR"}},
		{path: "Mario.rom", want: Parsed{Title: "Mario"}},
		{path: "/games/Unknown [0].gba", want: Parsed{Title: "Unknown", ID: 0, HasID: true}},
		{path: "Metroid [en].gba", want: Parsed{Title: "Metroid", Language: "en"}},
		{path: "Final Fantasy VI.v1.1.sfc", want: Parsed{Title: "Final Fantasy VI"}},
		{path: "Golden Sun [FR, 1234, de].gba", want: Parsed{Title: "Golden Sun", ID: 1234, HasID: true, Language: "de"}},
		{path: "Tetris [a] [12].gb", want: Parsed{Title: "Tetris [a]", ID: 12, HasID: true}},
		{path: "Odd ] name.gb", want: Parsed{Title: "Odd ] name"}},
		{path: "Spaced [ , ].gb", want: Parsed{Title: "Spaced"}},
		{path: "/dir.with.dots/Kirby.gba", want: Parsed{Title: "Kirby"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got := Parse(tc.path)
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.path, got, tc.want)
			}
		})
	}
}
