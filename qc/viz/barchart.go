// Package viz renders a TransitionTable row as a PNG bar chart, in the same
// gg.Context idiom the teacher's circuit renderer uses, so a channel's
// decomposed transition probabilities can be inspected visually.
package viz

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/fogleman/gg"

	"github.com/inmzhang/leaky/qc/leakage"
	"github.com/inmzhang/leaky/qc/transition"
)

// BarChart renders one TransitionTable row (the set of transitions out of a
// fixed initial status) as a vertical bar per transition, bar height
// proportional to probability.
type BarChart struct{ Cell float64 }

// NewBarChart returns a BarChart with the given per-bar pixel width.
func NewBarChart(cellPx int) BarChart { return BarChart{Cell: float64(cellPx)} }

// Render draws the row for initial, one bar per transition labeled with its
// final status and (if attached) its Pauli twirl.
func (b BarChart) Render(table *transition.TransitionTable, initial leakage.Status) (image.Image, error) {
	row := table.Row(initial)
	if len(row) == 0 {
		return nil, fmt.Errorf("viz: no row registered for status %v", initial)
	}

	w := int(b.Cell) * len(row)
	h := int(b.Cell) * 3
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	maxProbability := 0.0
	for _, tr := range row {
		if tr.Probability > maxProbability {
			maxProbability = tr.Probability
		}
	}
	if maxProbability == 0 {
		maxProbability = 1
	}

	barWidth := b.Cell * 0.6
	plotHeight := float64(h) * 0.7
	baseline := float64(h) - b.Cell*0.4

	for i, tr := range row {
		x := float64(i)*b.Cell + (b.Cell-barWidth)/2
		barHeight := (tr.Probability / maxProbability) * plotHeight
		y := baseline - barHeight

		dc.SetRGB(0.2, 0.4, 0.8)
		dc.DrawRectangle(x, y, barWidth, barHeight)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, barWidth, barHeight)
		dc.Stroke()
		dc.DrawStringAnchored(transitionLabel(tr), x+barWidth/2, baseline+4, 0.5, 0)
	}

	return dc.Image(), nil
}

// Save renders and encodes the row at path as a PNG.
func (b BarChart) Save(path string, table *transition.TransitionTable, initial leakage.Status) error {
	img, err := b.Render(table, initial)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func transitionLabel(tr transition.Transition) string {
	label := tr.Final.String()
	if tr.PauliIndex == transition.NoPauli {
		return label
	}
	digits := transition.DecodePauliDigits(tr.PauliIndex, tr.RemainCount())
	name := ""
	for _, d := range digits {
		name += transition.PauliName(d)
	}
	return label + " " + name
}
