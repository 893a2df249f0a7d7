package web

import (
	"encoding/json"
	"io"

	"github.com/a-h/templ"
)

// LocalGame describes one single-device game on the home screen.
type LocalGame struct {
	Slug        string
	Title       string
	Description string
}

var LocalGames = []LocalGame{
	{Slug: "truth-or-dare", Title: "Wahrheit oder Pflicht", Description: "Zieh eine Wahrheit oder eine Pflicht."},
	{Slug: "confessions", Title: "Ich hab noch nie...", Description: "Gib zu oder eben nicht."},
	{Slug: "would-rather", Title: "Wer würde eher...?", Description: "Zwei Namen, eine Frage."},
	{Slug: "buzzer", Title: "Buzzer Mode", Description: "Wer zu langsam drückt, trinkt."},
}

func FindLocalGame(slug string) (LocalGame, bool) {
	for _, g := range LocalGames {
		if g.Slug == slug {
			return g, true
		}
	}
	return LocalGame{}, false
}

func esc(value string) string {
	return templ.EscapeString(value)
}

// jsString renders value as a JavaScript string literal.
func jsString(value string) string {
	data, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(data)
}

func writeHead(w io.Writer, title string) {
	_, _ = io.WriteString(w, `<!doctype html>
<html lang="de">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`+esc(title)+`</title>
    <style>
      body { font-family: system-ui, sans-serif; background: #111; color: #eee; margin: 0; }
      .shell { max-width: 32rem; margin: 0 auto; padding: 1.5rem; display: flex; flex-direction: column; gap: 1rem; }
      .panel { background: #1c1c1c; border: 1px solid #333; border-radius: 1rem; padding: 1rem; }
      .card { font-size: 1.4rem; font-weight: 700; min-height: 4rem; }
      .error { color: #f87171; }
      button, input { font: inherit; padding: .6rem 1rem; border-radius: .6rem; border: 1px solid #444; background: #222; color: #eee; }
      button.primary { background: #10b981; border-color: #10b981; color: #fff; }
      a { color: #7dd3fc; }
      ul.roster { list-style: none; padding: 0; }
    </style>
  </head>
  <body>
    <main class="shell">
`)
}

func writeFoot(w io.Writer, script string) {
	_, _ = io.WriteString(w, `    </main>
    <script>
`+script+`
    </script>
  </body>
</html>
`)
}
