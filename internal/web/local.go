package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

type localAction struct {
	Label  string
	Method string
	Path   string
	Body   string
}

var localActions = map[string][]localAction{
	"truth-or-dare": {
		{Label: "Wahrheit", Method: "POST", Path: "/draw", Body: `{"category":"truth"}`},
		{Label: "Pflicht", Method: "POST", Path: "/draw", Body: `{"category":"dare"}`},
		{Label: "Trinken", Method: "POST", Path: "/drink"},
	},
	"confessions": {
		{Label: "Nächste Karte", Method: "POST", Path: "/next"},
		{Label: "Hab ich schon", Method: "POST", Path: "/vote", Body: `{"choice":"admit"}`},
		{Label: "Noch nie", Method: "POST", Path: "/vote", Body: `{"choice":"never"}`},
	},
	"would-rather": {
		{Label: "Los geht's", Method: "POST", Path: "/play"},
		{Label: "Nächste Runde", Method: "POST", Path: "/next"},
		{Label: "Spieler ändern", Method: "POST", Path: "/setup"},
	},
	"buzzer": {
		{Label: "Start", Method: "POST", Path: "/start"},
		{Label: "BUZZ!", Method: "POST", Path: "/buzz"},
		{Label: "Abbrechen", Method: "POST", Path: "/cancel"},
		{Label: "Nochmal", Method: "POST", Path: "/again"},
		{Label: "Nächste Karte", Method: "POST", Path: "/next"},
	},
}

// LocalGamePage renders the single-device screen for one game. All state
// lives on the server; the page only renders the returned JSON.
func LocalGamePage(game LocalGame) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writeHead(w, game.Title)
		_, _ = io.WriteString(w, `      <a href="/">Zurück</a>
      <h1>`+esc(game.Title)+`</h1>
      <section class="panel">
        <p id="status"></p>
        <p id="card" class="card"></p>
        <p id="detail"></p>
        <p id="localError" class="error"></p>
      </section>
`)
		if game.Slug == "would-rather" {
			_, _ = io.WriteString(w, `      <section class="panel">
        <form id="playerForm">
          <input name="name" placeholder="Spielername" maxlength="24" required/>
          <button type="submit">Hinzufügen</button>
        </form>
        <ul id="players" class="roster"></ul>
      </section>
`)
		}
		if game.Slug == "confessions" {
			_, _ = io.WriteString(w, `      <section class="panel">
        <form id="submitForm">
          <input name="text" placeholder="Ich hab noch nie..." maxlength="200" required/>
          <button type="submit">Einreichen</button>
        </form>
      </section>
`)
		}
		_, _ = io.WriteString(w, `      <section class="panel">
`)
		for _, action := range localActions[game.Slug] {
			body := action.Body
			if body == "" {
				body = "{}"
			}
			_, _ = io.WriteString(w, `        <button type="button" data-method="`+esc(action.Method)+`" data-path="`+esc(action.Path)+`" data-body="`+esc(body)+`">`+esc(action.Label)+`</button>
`)
		}
		_, _ = io.WriteString(w, `      </section>
`)
		writeFoot(w, "      const base = \"/api/local/\" + "+jsString(game.Slug)+";\n"+localScript)
		return nil
	})
}

const localScript = `
      const statusEl = document.getElementById("status");
      const cardEl = document.getElementById("card");
      const detailEl = document.getElementById("detail");
      const errorEl = document.getElementById("localError");
      let sampler = null;

      function render(state) {
        statusEl.textContent = state.counter ? state.phase + " (" + state.counter + ")" : state.phase;
        const card = state.card || state.confession;
        cardEl.textContent = card ? card.text : "";
        let detail = "";
        if (state.player_a && state.player_b) {
          detail = state.player_a + " oder " + state.player_b;
        }
        if (state.confession && state.voted) {
          detail = state.admit_percent + "% hatten schon, " + state.never_percent + "% noch nie";
        }
        if (state.reaction) {
          detail = state.reaction.millis + " ms: " + state.reaction.label;
        } else if (state.phase === "revealed") {
          detail = state.elapsed_ms + " ms";
        }
        if (typeof state.drinks === "number" && state.drinks > 0) {
          detail = "Schlücke: " + state.drinks;
        }
        detailEl.textContent = detail;
        const players = document.getElementById("players");
        if (players && state.players) {
          players.innerHTML = "";
          state.players.forEach((name) => {
            const li = document.createElement("li");
            li.textContent = name + " ";
            const remove = document.createElement("button");
            remove.textContent = "x";
            remove.addEventListener("click", () => call("DELETE", "/players/" + encodeURIComponent(name)));
            li.appendChild(remove);
            players.appendChild(li);
          });
        }
        const polling = state.phase === "waiting" || state.phase === "revealed";
        if (polling && !sampler) {
          sampler = setInterval(() => call("GET", ""), 50);
        } else if (!polling && sampler) {
          clearInterval(sampler);
          sampler = null;
        }
      }

      async function call(method, path, body) {
        const options = { method, headers: { "Content-Type": "application/json" } };
        if (method !== "GET") {
          options.body = body || "{}";
        }
        const res = await fetch(base + path, options);
        const data = await res.json();
        if (!res.ok) {
          errorEl.textContent = data.error || "Bitte nochmal versuchen.";
          return;
        }
        errorEl.textContent = "";
        if (data.phase) {
          render(data);
        }
      }

      document.querySelectorAll("button[data-path]").forEach((button) => {
        button.addEventListener("click", () => call(button.dataset.method, button.dataset.path, button.dataset.body));
      });
      const playerForm = document.getElementById("playerForm");
      if (playerForm) {
        playerForm.addEventListener("submit", (event) => {
          event.preventDefault();
          const name = event.target.elements.name.value;
          event.target.reset();
          call("POST", "/players", JSON.stringify({ name }));
        });
      }
      const submitForm = document.getElementById("submitForm");
      if (submitForm) {
        submitForm.addEventListener("submit", (event) => {
          event.preventDefault();
          const text = event.target.elements.text.value;
          event.target.reset();
          call("POST", "/submit", JSON.stringify({ text }));
        });
      }
      call("GET", "");
`
