package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// HoldButton fires only after being held down for a configured time. In
// kiosk mode the settings are reachable through one, so a stray tap on the
// wall display cannot leave the dashboard.
type HoldButton struct {
	widget.BaseWidget
	Text        string
	HoldSeconds int
	OnCompleted func()

	holding  bool
	hovered  bool
	progress float64
	ticker   *time.Ticker
}

func NewHoldButton(text string, holdSeconds int, onCompleted func()) *HoldButton {
	if holdSeconds <= 0 {
		holdSeconds = 3
	}
	b := &HoldButton{
		Text:        text,
		HoldSeconds: holdSeconds,
		OnCompleted: onCompleted,
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.ForegroundColor())
	text.Alignment = fyne.TextAlignCenter

	bg := canvas.NewRectangle(theme.ButtonColor())
	progressBar := canvas.NewRectangle(theme.PrimaryColor())

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          bg,
		progressBar: progressBar,
	}
}

func (b *HoldButton) Tapped(*fyne.PointEvent) {
	// Tapped fires on release, the hold is driven by MouseDown/MouseUp.
}

func (b *HoldButton) TappedSecondary(*fyne.PointEvent) {
}

func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {
}

func (b *HoldButton) MouseOut() {
	b.hovered = false
	b.stopHold()
	b.Refresh()
}

func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	if b.holding {
		return
	}
	b.holding = true
	b.progress = 0
	b.Refresh()

	tickInterval := 50 * time.Millisecond
	totalTicks := float64(b.HoldSeconds*1000) / float64(tickInterval.Milliseconds())
	increment := 1.0 / totalTicks

	b.ticker = time.NewTicker(tickInterval)
	go func() {
		for range b.ticker.C {
			if !b.holding {
				return
			}

			b.progress += increment
			done := b.progress >= 1.0

			fyne.Do(func() {
				b.Refresh()
			})

			if done {
				b.ticker.Stop()
				b.holding = false
				if b.OnCompleted != nil {
					fyne.Do(b.OnCompleted)
				}
				return
			}
		}
	}()
}

func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.stopHold()
	b.Refresh()
}

func (b *HoldButton) stopHold() {
	if !b.holding {
		return
	}
	b.holding = false
	if b.ticker != nil {
		b.ticker.Stop()
	}
	b.progress = 0
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)

	progressWidth := size.Width * float32(r.button.progress)
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	minWidth := textSize.Width + theme.Padding()*4
	minHeight := textSize.Height + theme.Padding()*2

	if minWidth < 160 {
		minWidth = 160
	}
	if minHeight < 44 {
		minHeight = 44
	}

	return fyne.NewSize(minWidth, minHeight)
}

func (r *holdButtonRenderer) Refresh() {
	r.text.Text = r.button.Text
	r.text.Color = theme.ForegroundColor()

	if r.button.hovered {
		r.bg.FillColor = theme.HoverColor()
	} else {
		r.bg.FillColor = theme.ButtonColor()
	}

	size := r.bg.Size()
	progressWidth := size.Width * float32(r.button.progress)
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {
}
