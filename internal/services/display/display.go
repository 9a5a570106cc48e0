// Package display shows annotated frames in a HighGUI window and polls the keyboard.
package display

import (
	"gocv.io/x/gocv"
)

// KeyEsc stops the monitor.
const KeyEsc = 27

// Sink receives annotated frames and reports whether the user asked to quit.
type Sink interface {
	Show(frame gocv.Mat) (quit bool)
	Close() error
}

// Window is a Sink backed by an OpenCV window.
type Window struct {
	win *gocv.Window
}

func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show draws frame and waits 1 ms for a key. ESC means quit.
func (w *Window) Show(frame gocv.Mat) bool {
	w.win.IMShow(frame)
	return w.win.WaitKey(1)&0xFF == KeyEsc
}

func (w *Window) Close() error {
	return w.win.Close()
}

// Headless is a Sink that shows nothing and never asks to quit.
type Headless struct{}

func (Headless) Show(gocv.Mat) bool { return false }
func (Headless) Close() error       { return nil }
