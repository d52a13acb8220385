package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/pattern-gallery/internal/matrix"
	"github.com/sweeney/pattern-gallery/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateClass": func(s string) string {
		if s == "ON" {
			return "on"
		}
		return "off"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pattern Gallery</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
pre { font-size: 1.6em; line-height: 1.1em; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Pattern Gallery{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Selection</h2>
<table>
<tr><th>Mode</th><td>{{.Selection.Mode}}</td></tr>
<tr><th>Pattern</th><td id="index">{{.Selection.Index}}</td></tr>
{{if eq (printf "%s" .Selection.Mode) "toggle"}}<tr><th>Green</th><td id="green-state" class="{{stateClass (printf "%s" .Selection.GreenState)}}">{{.Selection.GreenState}}</td></tr>
<tr><th>Blue</th><td id="blue-state" class="{{stateClass (printf "%s" .Selection.BlueState)}}">{{.Selection.BlueState}}</td></tr>{{end}}
</table>
<pre>{{.Pattern}}</pre>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}none{{end}}</td></tr>
<tr><th>Buffered</th><td>{{.MQTTBuffered}}</td></tr>
</table>

<h2>Counters</h2>
<table>
<tr><th>Button 1 accepted</th><td>{{.Counters.Button1.Accepted}}</td></tr>
<tr><th>Button 1 bounces</th><td>{{.Counters.Button1.Rejected}}</td></tr>
<tr><th>Button 2 accepted</th><td>{{.Counters.Button2.Accepted}}</td></tr>
<tr><th>Button 2 bounces</th><td>{{.Counters.Button2.Rejected}}</td></tr>
<tr><th>Renders</th><td>{{.Counters.Renders}}</td></tr>
<tr><th>Render errors</th><td>{{.Counters.RenderErrors}}</td></tr>
<tr><th>Invalid input</th><td>{{.Counters.InvalidInputs}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Hardware</th><td>{{if .Config.Hardware}}yes{{else}}simulated{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/pattern.txt">pattern</a></p>
{{if .Config.WSBroker}}
<script src="https://unpkg.com/mqtt/dist/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "gallery/selection/events";
  var dot = document.getElementById("live-dot");
  var indexEl = document.getElementById("index");
  var greenEl = document.getElementById("green-state");
  var blueEl = document.getElementById("blue-state");

  function setState(el, state) {
    if (!el) return;
    el.textContent = state;
    el.className = state === "ON" ? "on" : "off";
  }

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.gallery) {
        indexEl.textContent = msg.gallery.index;
        setState(greenEl, msg.gallery.green.state);
        setState(blueEl, msg.gallery.blue.state);
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime  time.Duration
		Pattern string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Pattern:  matrix.ASCII(snap.Selection.Index),
	}
	indexTmpl.Execute(w, data)
}
