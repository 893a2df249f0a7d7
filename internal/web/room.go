package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

type RoomPage struct {
	Code          string
	Name          string
	ParticipantID string
	IsHost        bool
	ShareURL      string
}

var roomGames = []struct{ Slug, Title string }{
	{"truth-or-dare", "Wahrheit oder Pflicht"},
	{"confessions", "Ich hab noch nie"},
	{"would-rather", "Wer würde eher"},
	{"buzzer", "Buzzer"},
}

func RoomView(page RoomPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writeHead(w, "Raum "+page.Code)
		_, _ = io.WriteString(w, `      <a href="/online">Zurück</a>
      <header class="panel">
        <h1>Raum <span id="roomCode">`+esc(page.Code)+`</span></h1>
        <img src="/api/rooms/`+esc(page.Code)+`/qr.png" alt="QR-Code" width="160" height="160"/>
        <p>`+esc(page.ShareURL)+`</p>
      </header>
      <section class="panel">
        <p id="gameName"></p>
        <p id="card" class="card">Warte auf den Host...</p>
        <p id="pair"></p>
        <p id="roomError" class="error"></p>
      </section>
`)
		if page.IsHost {
			_, _ = io.WriteString(w, `      <section class="panel" id="hostControls">
`)
			for _, g := range roomGames {
				_, _ = io.WriteString(w, `        <button type="button" data-game="`+esc(g.Slug)+`">`+esc(g.Title)+`</button>
`)
			}
			_, _ = io.WriteString(w, `        <div>
          <button type="button" class="primary" data-draw="">Karte ziehen</button>
          <button type="button" data-draw="truth">Wahrheit</button>
          <button type="button" data-draw="dare">Pflicht</button>
        </div>
        <button type="button" id="closeRoom">Raum schließen</button>
      </section>
`)
		}
		_, _ = io.WriteString(w, `      <section class="panel">
        <h2>Mitspieler</h2>
        <ul id="roster" class="roster"></ul>
      </section>
`)
		script := "      const roomCode = " + jsString(page.Code) + ";\n" +
			"      const participantID = " + jsString(page.ParticipantID) + ";\n" +
			"      const displayName = sessionStorage.getItem(\"ts_name\") || " + jsString(page.Name) + ";\n" +
			roomScript
		writeFoot(w, script)
		return nil
	})
}

const roomScript = `
      const cardEl = document.getElementById("card");
      const pairEl = document.getElementById("pair");
      const gameEl = document.getElementById("gameName");
      const errorEl = document.getElementById("roomError");
      const rosterEl = document.getElementById("roster");
      let version = 0;

      function apply(room) {
        if (!room || room.version <= version) {
          return;
        }
        version = room.version;
        gameEl.textContent = room.current_game || "";
        cardEl.textContent = room.current_card_text || "Warte auf den Host...";
        const meta = room.current_meta || {};
        pairEl.textContent = meta.player_a && meta.player_b ? meta.player_a + " oder " + meta.player_b : "";
      }

      function renderRoster(roster) {
        rosterEl.innerHTML = "";
        (roster || []).forEach((p) => {
          const li = document.createElement("li");
          li.textContent = p.is_host ? p.display_name + " (Host)" : p.display_name;
          rosterEl.appendChild(li);
        });
      }

      async function post(path, body) {
        const res = await fetch("/api/rooms/" + roomCode + path, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(body || {})
        });
        const data = await res.json();
        if (!res.ok) {
          errorEl.textContent = data.error || "Bitte nochmal versuchen.";
          return null;
        }
        errorEl.textContent = "";
        if (data.room) {
          apply(data.room);
        }
        return data;
      }

      document.querySelectorAll("button[data-game]").forEach((button) => {
        button.addEventListener("click", () => post("/game", { game: button.dataset.game }));
      });
      document.querySelectorAll("button[data-draw]").forEach((button) => {
        button.addEventListener("click", () => {
          const body = { participant_id: participantID };
          if (button.dataset.draw) {
            body.category = button.dataset.draw;
          }
          post("/draw", body);
        });
      });
      const closeButton = document.getElementById("closeRoom");
      if (closeButton) {
        closeButton.addEventListener("click", async () => {
          if (await post("/leave")) {
            window.location = "/online";
          }
        });
      }

      const scheme = window.location.protocol === "https:" ? "wss://" : "ws://";
      const params = new URLSearchParams({ name: displayName, participant_id: participantID });
      const socket = new WebSocket(scheme + window.location.host + "/ws/rooms/" + roomCode + "?" + params);
      socket.addEventListener("message", (event) => {
        const data = JSON.parse(event.data);
        if (data.type === "room") {
          apply(data.room);
        } else if (data.type === "roster") {
          renderRoster(data.roster);
        } else if (data.type === "closed") {
          errorEl.textContent = "Der Raum wurde geschlossen.";
        }
      });
      socket.addEventListener("close", () => {
        if (!errorEl.textContent) {
          errorEl.textContent = "Verbindung getrennt.";
        }
      });
`
