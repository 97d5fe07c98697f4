// ybusview shows the Ybus of one area as a table, refreshed from the
// webservice of a running ybusservice.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"

	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Row is one stored entry of the Ybus
type Row struct {
	From, To string
	G, B     float64
}

type byNode []Row

func (r byNode) Len() int      { return len(r) }
func (r byNode) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r byNode) Less(i, j int) bool {
	if r[i].From != r[j].From {
		return nodeLess(r[i].From, r[j].From)
	}
	return nodeLess(r[i].To, r[j].To)
}

func nodeLess(a, b string) bool {
	ka, errA := ybus.ParseNodeKey(a)
	kb, errB := ybus.ParseNodeKey(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ka.Less(kb)
}

// rows flattens the wire form, ordered by bus then phase
func rows(s ybus.Serializable) []Row {
	out := []Row{}
	for a, row := range s {
		for b, v := range row {
			out = append(out, Row{a, b, v[0], v[1]})
		}
	}
	sort.Sort(byNode(out))
	return out
}

func fetch(ctx context.Context, base, areaID string) (ybus.Serializable, error) {
	u := base + "/areas/" + url.PathEscape(areaID) + "/ybus"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e := struct {
			Error string `json:"error"`
		}{}
		json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("%v: %v %v", areaID, resp.Status, e.Error)
	}
	s := ybus.Serializable{}
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("%v: %w", areaID, err)
	}
	return s, nil
}

var header = []string{"Node", "Node", "G (S)", "B (S)"}

func fill(table *tview.Table, rs []Row) {
	table.Clear()
	for col, h := range header {
		table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, r := range rs {
		color := tcell.ColorWhite
		if r.From == r.To {
			color = tcell.ColorDarkCyan
		}
		cells := []string{
			r.From,
			r.To,
			strconv.FormatFloat(r.G, 'g', 8, 64),
			strconv.FormatFloat(r.B, 'g', 8, 64),
		}
		for col, c := range cells {
			align := tview.AlignLeft
			if col > 1 {
				align = tview.AlignRight
			}
			table.SetCell(i+1, col, tview.NewTableCell(c).
				SetTextColor(color).
				SetAlign(align))
		}
	}
}

func main() {
	base := flag.String("url", "http://localhost:8080", "webservice address")
	areaID := flag.String("area", "", "area to show")
	every := flag.Duration("refresh", 10*time.Second, "refresh interval")
	flag.Parse()
	if *areaID == "" {
		log.Fatal("[YbusView] -area is required")
	}

	app := tview.NewApplication()
	table := tview.NewTable().
		SetFixed(1, 0).
		SetSelectable(true, false).
		SetSeparator(' ')
	table.SetBorder(true).SetTitle(" Ybus " + *areaID + " ")

	status := tview.NewTextView().SetTextColor(tcell.ColorDarkMagenta)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(status, 1, 0, false)

	update := func() {
		ctx, cancel := context.WithTimeout(context.Background(), *every)
		defer cancel()
		s, err := fetch(ctx, *base, *areaID)
		app.QueueUpdateDraw(func() {
			status.Clear()
			if err != nil {
				fmt.Fprintf(status, "%v  %v", time.Now().Format(time.Kitchen), err)
				return
			}
			rs := rows(s)
			fill(table, rs)
			fmt.Fprintf(status, "%v  %d entries, q to quit", time.Now().Format(time.Kitchen), len(rs))
		})
	}

	go func() {
		update()
		ticker := time.NewTicker(*every)
		defer ticker.Stop()
		for range ticker.C {
			update()
		}
	}()

	app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return ev
	})

	if err := app.SetRoot(layout, true).Run(); err != nil {
		log.Fatal(err)
	}
}
