//go:build cgo

package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// showWindow opens a desktop window displaying img. It blocks until the
// window is closed or Esc is pressed.
func showWindow(img *image.RGBA, title string) error {
	b := img.Bounds()
	g := &imageGame{img: img}

	ebiten.SetWindowTitle("whitted - " + title)
	ebiten.SetWindowSize(b.Dx(), b.Dy())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

type imageGame struct {
	img   *image.RGBA
	frame *ebiten.Image
}

func (g *imageGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *imageGame) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImageFromImage(g.img)
	}
	screen.DrawImage(g.frame, nil)
}

func (g *imageGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}
