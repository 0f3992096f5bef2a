// Serve color conversions and an animated hue sweep over http (1.1 or
// better, 2.0 streaming). Use `curl -N` (or fortio's h2cli -stream) to
// see the sweep as it is streamed.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"fortio.org/fortio/fhttp"
	"fortio.org/log"
	"fortio.org/progressbar"
	"fortio.org/safecast"
	"fortio.org/scli"
	"fortio.org/tpick"
	"fortio.org/tpick/ansicell"
	"fortio.org/tpick/webcolor"
)

func main() {
	os.Exit(Main())
}

var (
	delayFlag = flag.Duration("delay", 100*time.Millisecond, "Delay between sweep frames")
	stepsFlag = flag.Int("steps", 60, "Number of hue sweep frames per request")
)

func Main() int {
	portFlag := flag.String("port", ":8275", "Port to listen on")
	scli.ServerMain()
	mux, _ := fhttp.HTTPServer("tpick", *portFlag)
	mux.HandleFunc("GET /color", log.LogAndCall("color", colorHandler))
	mux.HandleFunc("GET /sweep", log.LogAndCall("sweep", sweepHandler))
	scli.UntilInterrupted()
	return 0
}

// colorHandler parses ?c= and returns every derived view as json.
func colorHandler(w http.ResponseWriter, r *http.Request) {
	input := r.FormValue("c")
	if input == "" {
		input = "gold"
	}
	c, err := webcolor.Parse(input)
	if err != nil {
		log.LogVf("bad color %q: %v", input, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(tpick.ViewOf(c)); err != nil {
		log.Errf("color json: %v", err)
	}
}

// sweepHandler streams an ANSI animation rotating the hue of ?c= across
// the whole wheel, one frame per delay.
func sweepHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	input := r.FormValue("c")
	if input == "" {
		input = "gold"
	}
	base, err := webcolor.Parse(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	ww := bufio.NewWriter(w)
	s := &ansicell.Screen{Out: ww}
	s.W = 80
	s.H = 24
	s.TrueColor = true
	co := webcolor.ColorOutput{TrueColor: s.TrueColor}
	cfg := progressbar.DefaultConfig()
	cfg.ScreenWriter = ww
	cfg.UpdateInterval = 0
	cfg.Width = 20
	pbar := cfg.NewBar()
	cur := base
	pbar.Extra = func(_ *progressbar.Bar, _ float64) string {
		return fmt.Sprintf(", hue %d°", safecast.MustRound[int](360*cur.H))
	}
	steps := *stepsFlag
	s.ClearScreen()
	for i := range steps {
		flusher.Flush()
		select {
		case <-r.Context().Done():
			log.LogVf("Client disconnected")
			return
		case <-time.After(*delayFlag):
		}
		cur = base
		cur.H = float64(i) / float64(steps-1)
		v := tpick.ViewOf(cur)
		s.MoveCursor(0, 1)
		for x := range s.W {
			hc := webcolor.HSLA{H: float64(x) / float64(s.W-1), S: 1, L: 0.5, A: 1}.RGBA()
			s.WriteString(co.Background(hc))
			if x == safecast.MustRound[int](cur.H*float64(s.W-1)) {
				s.WriteString("┃")
			} else {
				s.WriteString(" ")
			}
		}
		s.WriteString(webcolor.Reset)
		s.WriteAtStr(0, 3, co.Background(cur.RGBA())+"        "+webcolor.Reset+
			"  "+v.Hex+"  "+v.HSLAString+"\033[K")
		s.MoveCursor(0, s.H-1)
		pbar.Progress(100 * float64(i) / float64(steps-1))
	}
	_, _ = ww.WriteString("\r\n\n")
	_ = ww.Flush()
}
