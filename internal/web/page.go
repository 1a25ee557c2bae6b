package web

//go:generate templ generate -f page.templ

// EditorPageData configures the editor page.
type EditorPageData struct {
	Title       string
	SocketPath  string
	Presets     []string
	Preset      string
	AuthEnabled bool
	DebounceMS  int64
	InitialDBML string
}

// pageConfig is handed to the editor script as JSON.
type pageConfig struct {
	SocketPath  string `json:"socketPath"`
	AuthEnabled bool   `json:"authEnabled"`
	DebounceMS  int64  `json:"debounceMs"`
}

func (d EditorPageData) config() pageConfig {
	return pageConfig{
		SocketPath:  d.SocketPath,
		AuthEnabled: d.AuthEnabled,
		DebounceMS:  d.DebounceMS,
	}
}

const pageStyle = `
body { margin: 0; font-family: system-ui, sans-serif; height: 100vh; display: flex; flex-direction: column; }
header { display: flex; gap: 1rem; align-items: center; padding: .5rem 1rem; background: #1f2937; color: #f9fafb; }
header h1 { font-size: 1.1rem; margin: 0; }
#status { margin-left: auto; font-size: .85rem; opacity: .8; }
main { flex: 1; display: flex; min-height: 0; }
#dbml { width: 35%; resize: horizontal; font-family: ui-monospace, monospace; font-size: .9rem; padding: .75rem; border: 0; border-right: 1px solid #d1d5db; }
#diagram { flex: 1; overflow: auto; background: #f3f4f6; }
#canvas { min-width: 100%; min-height: 100%; }
.table-box { fill: #ffffff; stroke: #9ca3af; }
.table-title { font-weight: 600; font-size: 14px; }
.column { font-size: 12px; fill: #374151; }
.edge { fill: none; stroke: #FF0072; stroke-width: 2; }
.edge-label { font-size: 11px; fill: #FF0072; }
`

const editorScript = `
(function () {
  var cfg = JSON.parse(document.getElementById("erd-config").textContent);
  var source = document.getElementById("dbml");
  var preset = document.getElementById("layout");
  var status = document.getElementById("status");
  var canvas = document.getElementById("canvas");
  var ns = "http://www.w3.org/2000/svg";
  var socket;

  function connect() {
    var url = (location.protocol === "https:" ? "wss://" : "ws://") + location.host + cfg.socketPath;
    if (cfg.authEnabled) {
      var token = localStorage.getItem("erdgen.token") || window.prompt("Client token");
      if (token) {
        localStorage.setItem("erdgen.token", token);
        url += "?token=" + encodeURIComponent(token);
      }
    }
    socket = new WebSocket(url);
    socket.onopen = send;
    socket.onmessage = function (e) { handle(JSON.parse(e.data)); };
    socket.onclose = function () {
      status.textContent = "disconnected, retrying";
      setTimeout(connect, 2000);
    };
  }

  function send() {
    if (socket && socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify({ dbml: source.value, layout: preset.value }));
    }
  }

  function handle(ev) {
    if (ev.type === "ready") {
      status.textContent = "connected";
    } else if (ev.type === "error") {
      status.textContent = ev.error.message + (ev.error.details ? ": " + ev.error.details : "");
    } else if (ev.type === "diagram") {
      draw(ev.diagram);
      var s = ev.diagram.stats;
      status.textContent = s.tables + " tables, " + s.columns + " columns, " + s.references + " references" +
        (ev.diagram.complete ? "" : " (incomplete: " + (ev.diagram.errors || []).join("; ") + ")");
    }
  }

  function el(name, attrs, text) {
    var node = document.createElementNS(ns, name);
    Object.keys(attrs).forEach(function (k) { node.setAttribute(k, attrs[k]); });
    if (text !== undefined) node.textContent = text;
    canvas.appendChild(node);
    return node;
  }

  function draw(d) {
    while (canvas.firstChild) canvas.removeChild(canvas.firstChild);
    var byId = {}, width = 0, height = 0;
    d.nodes.forEach(function (n) { byId[n.id] = n; });

    function origin(n) {
      var p = { x: n.position.x, y: n.position.y };
      var parent = n.parentId && byId[n.parentId];
      if (parent) { p.x += parent.position.x; p.y += parent.position.y; }
      return p;
    }

    d.nodes.forEach(function (n) {
      var p = origin(n);
      width = Math.max(width, p.x + n.width + 40);
      height = Math.max(height, p.y + (n.height || 40) + 40);
      if (n.kind === "table") {
        el("rect", { x: p.x, y: p.y, width: n.width, height: n.height, rx: 4, "class": "table-box" });
        el("text", { x: p.x + 10, y: p.y + 25, "class": "table-title" }, n.data.label);
      } else {
        el("text", { x: p.x + 10, y: p.y + 25, "class": "column" }, n.data.label);
      }
    });

    d.edges.forEach(function (e) {
      var s = byId[e.source], t = byId[e.target];
      if (!s || !t) return;
      var a = origin(s), b = origin(t);
      var x1 = a.x + s.width, y1 = a.y + 20, x2 = b.x, y2 = b.y + 20;
      var mid = (x1 + x2) / 2;
      el("path", { d: "M" + x1 + "," + y1 + " C" + mid + "," + y1 + " " + mid + "," + y2 + " " + x2 + "," + y2, "class": "edge" });
      el("text", { x: x1 + 4, y: y1 - 4, "class": "edge-label" }, e.data.startLabel);
      el("text", { x: x2 - 12, y: y2 - 4, "class": "edge-label" }, e.data.endLabel);
    });

    canvas.setAttribute("width", width);
    canvas.setAttribute("height", height);
  }

  source.addEventListener("input", send);
  preset.addEventListener("change", send);
  connect();
})();
`
