package main

// tabBarPageHTML draws the daemon's plain-text render in a <pre> and keeps
// the address bar in step with the render's location. Query parameters
// other than the credentials are sent to the daemon on connect.
const tabBarPageHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tabset</title>
    <style>
      body { margin: 0; background: #1e1e1e; color: #ddd; }
      pre { margin: 0; padding: 4px 0; font: 14px/1.4 monospace; cursor: pointer; white-space: pre; }
      #probe { position: absolute; visibility: hidden; font: 14px monospace; }
    </style>
  </head>
  <body>
    <pre id="bar"></pre>
    <span id="probe">0000000000</span>
    <script>
      const auth = ["token", "user", "pass"];
      const here = new URL(window.location.href);
      const creds = new URLSearchParams();
      const rest = new URLSearchParams();
      for (const [k, v] of here.searchParams) (auth.includes(k) ? creds : rest).append(k, v);

      const bar = document.getElementById("bar");
      const cell = document.getElementById("probe").getBoundingClientRect().width / 10;
      const cols = () => Math.max(1, Math.floor(window.innerWidth / cell));
      const ws = new WebSocket((here.protocol === "https:" ? "wss://" : "ws://") + here.host + "/ws?" + creds);
      const send = (type, payload) => ws.send(JSON.stringify({ type, payload }));
      let regions = [];

      ws.onopen = () => {
        send("subscribe", { width: cols(), height: 1, color_profile: "Ascii" });
        if ([...rest].length) send("navigate", { query: "?" + rest });
      };
      ws.onmessage = (ev) => {
        const msg = JSON.parse(ev.data);
        if (msg.type !== "render") return;
        bar.textContent = msg.payload.content;
        regions = msg.payload.regions || [];
        const loc = new URL(msg.payload.location || "/", window.location.origin);
        for (const [k, v] of creds) loc.searchParams.set(k, v);
        history.replaceState(null, "", loc.pathname + loc.search);
      };
      window.onresize = () => send("resize", { width: cols(), height: 1, color_profile: "Ascii" });
      bar.onclick = (ev) => {
        const rect = bar.getBoundingClientRect();
        const col = Math.floor((ev.clientX - rect.left) / cell);
        const line = Math.floor((ev.clientY - rect.top) / (rect.height / Math.max(1, bar.textContent.split("\n").length)));
        const hit = regions.find((r) => r.line === line && col >= r.start_col && col < r.end_col);
        if (hit) send("input", { type: "action", resolved_action: hit.action, resolved_target: hit.target || "" });
      };
      window.onkeydown = (ev) => {
        const keys = { ArrowRight: "right", ArrowLeft: "left", Enter: "enter", Escape: "esc", Tab: ev.shiftKey ? "shift+tab" : "tab" };
        const key = keys[ev.key] || (ev.key.length === 1 ? ev.key : "");
        if (!key) return;
        ev.preventDefault();
        send("input", { type: "key", key });
      };
    </script>
  </body>
</html>
`
