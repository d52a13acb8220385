// Command pattern-gallery selects one of ten LED-matrix patterns with two
// debounced push-buttons or the console, and mirrors the selection to an
// OLED label, LED outputs and MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/pattern-gallery/internal/clock"
	"github.com/sweeney/pattern-gallery/internal/console"
	"github.com/sweeney/pattern-gallery/internal/display"
	"github.com/sweeney/pattern-gallery/internal/gpio"
	"github.com/sweeney/pattern-gallery/internal/logic"
	"github.com/sweeney/pattern-gallery/internal/matrix"
	"github.com/sweeney/pattern-gallery/internal/mqtt"
	"github.com/sweeney/pattern-gallery/internal/render"
	"github.com/sweeney/pattern-gallery/internal/status"
	"github.com/sweeney/pattern-gallery/internal/web"
)

// statusInterval is how often the tracker, heartbeat and bounce summary are refreshed.
const statusInterval = time.Second

type config struct {
	mode               logic.Mode
	debounce           time.Duration
	suppressBootGlitch bool
	chip               string
	pins               gpio.Pins
	i2cBus             string
	spiPort            string
	intensity          float64
	broker             string
	wsBroker           string
	heartbeat          time.Duration
	httpAddr           string
	noHardware         bool
	console            bool
}

func main() {
	mode := flag.String("mode", string(logic.ModeCounter), "State machine: counter or toggle")
	debounce := flag.Duration("debounce", logic.DefaultDebounce, "Debounce window per button")
	suppress := flag.Bool("suppress-boot-glitch", false, "Start debounce windows at startup time so an edge right after boot is rejected")
	chip := flag.String("gpio-chip", gpio.DefaultChip, "GPIO character device")
	pins := gpio.DefaultPins()
	flag.IntVar(&pins.Button1, "pin-button1", pins.Button1, "Line offset for button 1")
	flag.IntVar(&pins.Button2, "pin-button2", pins.Button2, "Line offset for button 2")
	flag.IntVar(&pins.Red, "pin-red", pins.Red, "Line offset for the red LED")
	flag.IntVar(&pins.Green, "pin-green", pins.Green, "Line offset for the green LED")
	flag.IntVar(&pins.Blue, "pin-blue", pins.Blue, "Line offset for the blue LED")
	i2cBus := flag.String("i2c-bus", "", "I2C bus for the OLED (empty for the first available)")
	spiPort := flag.String("spi-port", "", "SPI port for the LED matrix (empty for the first available)")
	intensity := flag.Float64("intensity", matrix.DefaultIntensity, "LED matrix intensity, 0..1")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	noHardware := flag.Bool("no-hardware", false, "Use simulated peripherals")
	useConsole := flag.Bool("console", true, "Read commands from stdin")
	printPatterns := flag.Bool("print-patterns", false, "Print the pattern gallery and exit")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if *printPatterns {
		for i := 0; i < matrix.NumPatterns; i++ {
			fmt.Printf("pattern %d\n%s\n", i, matrix.ASCII(i))
		}
		return
	}

	m, err := logic.ParseMode(*mode)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	cfg := config{
		mode:               m,
		debounce:           *debounce,
		suppressBootGlitch: *suppress,
		chip:               *chip,
		pins:               pins,
		i2cBus:             *i2cBus,
		spiPort:            *spiPort,
		intensity:          *intensity,
		broker:             *broker,
		wsBroker:           resolveWSBroker(*wsBroker, *broker),
		heartbeat:          *heartbeat,
		httpAddr:           *httpAddr,
		noHardware:         *noHardware,
		console:            *useConsole,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// peripherals bundles the hardware collaborators.
type peripherals struct {
	buttons gpio.Buttons
	outputs gpio.Outputs
	matrix  matrix.Matrix
	display display.Display
}

func (p *peripherals) Close() error {
	var errs []error
	for _, c := range []io.Closer{p.buttons, p.outputs, p.matrix, p.display} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openPeripherals(cfg config) (*peripherals, error) {
	if cfg.noHardware {
		log.Infof("using simulated peripherals")
		return &peripherals{
			buttons: gpio.NewFakeButtons(),
			outputs: gpio.NewSimOutputs(),
			matrix:  matrix.NewSimMatrix(),
			display: display.NewSimDisplay(),
		}, nil
	}

	p := &peripherals{}
	outputs, err := gpio.NewRealOutputs(cfg.chip, cfg.pins.Red, cfg.pins.Green, cfg.pins.Blue)
	if err != nil {
		return nil, fmt.Errorf("init outputs: %w", err)
	}
	p.outputs = outputs

	mx, err := matrix.NewRealMatrix(cfg.spiPort)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("init matrix: %w", err)
	}
	p.matrix = mx

	disp, err := display.NewRealDisplay(cfg.i2cBus)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("init display: %w", err)
	}
	p.display = disp

	p.buttons = gpio.NewRealButtons(cfg.chip, cfg.pins.Button1, cfg.pins.Button2)
	return p, nil
}

// newFilter builds the edge filter. With -suppress-boot-glitch the windows
// start at clk's current time instead of zero.
func newFilter(cfg config, clk clock.Clock) *logic.EdgeFilter {
	f := logic.NewEdgeFilter(cfg.debounce)
	if cfg.suppressBootGlitch {
		f.Arm(clk.Now())
	}
	return f
}

// watchButtons routes button edges into the input handler. The callback runs
// on the GPIO event goroutine.
func watchButtons(b gpio.Buttons, h *logic.InputHandler) error {
	return b.Watch(func(e logic.Edge) {
		h.HandleEdge(e)
	})
}

func run(cfg config) error {
	periph, err := openPeripherals(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := periph.Close(); err != nil {
			log.Warnf("close peripherals: %v", err)
		}
	}()

	state := logic.NewSharedState(cfg.mode)
	filter := newFilter(cfg, clock.NewMonotonic())
	dispatcher := render.NewDispatcher(periph.matrix, periph.display, periph.outputs, float32(cfg.intensity))

	if err := watchButtons(periph.buttons, logic.NewInputHandler(filter, state)); err != nil {
		return fmt.Errorf("watch buttons: %w", err)
	}

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.NopPublisher{}
	if cfg.broker != "" {
		hostname, _ := os.Hostname()
		p, err := mqtt.NewRealPublisher(cfg.broker, "pattern-gallery-"+hostname)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus = p, p
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Mode:        string(cfg.mode),
		DebounceMs:  cfg.debounce.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Intensity:   cfg.intensity,
		Broker:      cfg.broker,
		WSBroker:    cfg.wsBroker,
		HTTPAddr:    cfg.httpAddr,
		Hardware:    !cfg.noHardware,
	})
	tracker.Update(state.Snapshot(), status.Counters{})
	tracker.SetMQTTConnected(mqttStatus.IsConnected())
	tracker.SetMQTTBuffered(mqttStatus.Buffered())

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warnf("failed to publish startup event: %v", err)
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cfg.httpAddr)
	}

	var chars chan byte
	if cfg.console {
		in, restore, err := console.OpenStdin()
		if err != nil {
			return fmt.Errorf("open console: %w", err)
		}
		defer restore()
		chars = make(chan byte)
		go func() {
			if err := console.NewReader(in).Run(chars); err != nil {
				log.Warnf("console: %v", err)
			}
		}()
	}

	log.Infof("started: mode=%s debounce=%v intensity=%g broker=%q heartbeat=%v",
		cfg.mode, cfg.debounce, cfg.intensity, cfg.broker, cfg.heartbeat)

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		state:      state,
		filter:     filter,
		dispatcher: dispatcher,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		heartbeat:  cfg.heartbeat,
		console:    chars,
		out:        os.Stdout,
	}
	return runLoop(l, time.Now, ticker.C, sigCh)
}

// loop is the foreground side of the daemon. Everything it touches outside
// SharedState is owned by the runLoop goroutine.
type loop struct {
	state      *logic.SharedState
	filter     *logic.EdgeFilter
	dispatcher *render.Dispatcher
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration
	console    <-chan byte
	out        io.Writer

	invalid  uint64
	reported [len(logic.Lines)]uint64 // rejected bounces already logged
}

func runLoop(l *loop, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	hb := logic.NewHeartbeat(l.heartbeat, startTime)
	chars := l.console
	if chars != nil {
		console.WriteMenu(l.out, l.state.Mode())
	}

	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			l.flush(now)
			l.shutdown(now, signalName(s))
			return nil

		case <-l.state.Pending():
			l.flush(now)

		case c, ok := <-chars:
			if !ok {
				log.Debugf("console: end of input")
				chars = nil
				continue
			}
			if quit := l.handleConsole(c); quit {
				log.Infof("console quit, shutting down")
				l.flush(now)
				l.shutdown(now, "CONSOLE")
				return nil
			}

		case <-tick:
			t := now()
			l.reportBounces()

			if hbData := hb.Check(t); hbData != nil {
				c := l.counters()
				buffered := 0
				if l.mqttStatus != nil {
					buffered = l.mqttStatus.Buffered()
				}
				log.Infof("heartbeat: uptime=%v index=%d renders=%d render_errors=%d mqtt_buffered=%d",
					hbData.Uptime, l.state.Snapshot().Index, c.Renders, c.RenderErrors, buffered)

				l.updateTracker()
				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if l.tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := l.publisher.PublishSystem(hbEvent); err != nil {
					log.Warnf("heartbeat publish error: %v", err)
				}
				continue
			}
			l.updateTracker()
		}
	}
}

// flush renders every update accepted since the last flush, in order, and
// mirrors the final state to MQTT.
func (l *loop) flush(now func() time.Time) {
	updates := l.state.Drain()
	if len(updates) == 0 {
		return
	}
	for _, u := range updates {
		l.dispatcher.Render(u.Snapshot)
	}

	final := updates[len(updates)-1]
	snap := final.Snapshot
	if snap.Mode == logic.ModeToggle {
		log.Infof("selection: %s -> green=%s blue=%s (%d update(s))", final.Action, snap.GreenState(), snap.BlueState(), len(updates))
	} else {
		log.Infof("selection: %s -> pattern %d (%d update(s))", final.Action, snap.Index, len(updates))
	}

	event := logic.Event{
		Timestamp: now(),
		Action:    final.Action,
		Snapshot:  snap,
		Coalesced: len(updates),
	}
	if err := l.publisher.Publish(event); err != nil {
		log.Warnf("publish error: %v", err)
	}
	l.updateTracker()
}

// handleConsole applies one console character and reports whether the user
// asked to quit.
func (l *loop) handleConsole(c byte) bool {
	fmt.Fprintf(l.out, "command received: %c\r\n", c)
	cmd, err := console.Parse(c)
	if errors.Is(err, console.ErrInvalidInput) {
		l.invalid++
		log.Warnf("console: %v", err)
		fmt.Fprint(l.out, "invalid command!\r\n")
		l.updateTracker()
		return false
	}
	if err != nil {
		log.Infof("console: %v", err)
		fmt.Fprint(l.out, "unknown command\r\n")
		return false
	}

	switch {
	case cmd.Quit:
		return true
	case cmd.Menu:
	case cmd.Action == logic.ActionSet:
		if err := l.state.Set(cmd.Index); err != nil {
			log.Warnf("console: %v", err)
		}
	default:
		l.state.Apply(cmd.Action)
	}
	console.WriteMenu(l.out, l.state.Mode())
	return false
}

func (l *loop) shutdown(now func() time.Time, reason string) {
	event := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if l.tracker != nil {
		l.updateTracker()
		event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Warnf("failed to publish shutdown event: %v", err)
	} else {
		log.Infof("published shutdown event")
	}
}

// reportBounces logs rejected edges that arrived since the last report.
func (l *loop) reportBounces() {
	for _, line := range logic.Lines {
		st := l.filter.Stats(line)
		if d := st.Rejected - l.reported[line]; d > 0 {
			log.Debugf("debounce: %s rejected %d bounce(s) (seen=%d accepted=%d)", line, d, st.Seen, st.Accepted)
		}
		l.reported[line] = st.Rejected
	}
}

func (l *loop) counters() status.Counters {
	rs := l.dispatcher.Stats()
	return status.Counters{
		Button1:       l.filter.Stats(logic.LineButton1),
		Button2:       l.filter.Stats(logic.LineButton2),
		Renders:       rs.Renders,
		RenderErrors:  rs.Errors(),
		InvalidInputs: l.invalid,
	}
}

func (l *loop) updateTracker() {
	if l.tracker == nil {
		return
	}
	l.tracker.Update(l.state.Snapshot(), l.counters())
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
		l.tracker.SetMQTTBuffered(l.mqttStatus.Buffered())
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	if broker == "" {
		return ""
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Warnf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
