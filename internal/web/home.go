package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writeHead(w, "Trinkspiel")
		_, _ = io.WriteString(w, `      <header>
        <h1>Trinkspiel</h1>
        <p>Spiel auf einem Handy oder zusammen in einem Raum.</p>
      </header>
`)
		for _, g := range LocalGames {
			_, _ = io.WriteString(w, `      <a class="panel" href="/play/`+esc(g.Slug)+`">
        <h2>`+esc(g.Title)+`</h2>
        <p>`+esc(g.Description)+`</p>
      </a>
`)
		}
		_, _ = io.WriteString(w, `      <a class="panel" href="/online">
        <h2>Online spielen</h2>
        <p>Erstelle einen Raum oder tritt mit einem Code bei.</p>
      </a>
`)
		writeFoot(w, "")
		return nil
	})
}

// OnlineLobby is the create-or-join screen.
func OnlineLobby(name, flash string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writeHead(w, "Online spielen")
		_, _ = io.WriteString(w, `      <h1>Online spielen</h1>
      <p id="lobbyError" class="error">`+esc(flash)+`</p>
      <section class="panel">
        <h2>Raum erstellen</h2>
        <form id="createForm">
          <input name="name" placeholder="Dein Name" value="`+esc(name)+`" required/>
          <button type="submit" class="primary">Erstellen</button>
        </form>
      </section>
      <section class="panel">
        <h2>Raum beitreten</h2>
        <form id="joinForm">
          <input name="code" placeholder="Code" maxlength="4" autocomplete="off" required/>
          <input name="name" placeholder="Dein Name" value="`+esc(name)+`" required/>
          <button type="submit">Beitreten</button>
        </form>
      </section>
`)
		writeFoot(w, lobbyScript)
		return nil
	})
}

const lobbyScript = `
      const lobbyError = document.getElementById("lobbyError");
      async function post(path, body) {
        const res = await fetch(path, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(body)
        });
        const data = await res.json();
        if (!res.ok) {
          throw new Error(data.error || "Bitte nochmal versuchen.");
        }
        return data;
      }
      document.getElementById("createForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const name = event.target.elements.name.value.trim();
        try {
          const data = await post("/api/rooms", { name });
          sessionStorage.setItem("ts_name", name);
          window.location = "/online/" + data.code;
        } catch (err) {
          lobbyError.textContent = err.message;
        }
      });
      document.getElementById("joinForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const code = event.target.elements.code.value.trim().toUpperCase();
        const name = event.target.elements.name.value.trim();
        try {
          const data = await post("/api/rooms/" + encodeURIComponent(code) + "/join", { name });
          sessionStorage.setItem("ts_name", name);
          window.location = "/online/" + data.room.code;
        } catch (err) {
          lobbyError.textContent = err.message;
        }
      });
`
