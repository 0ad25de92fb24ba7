package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/shuklaayush/chippy/cmd"
)

func main() {
	// pixelgl needs access to the main thread; cmd.Execute parses flags
	// and, for a windowed run, spawns the CPU/input/display/audio loops
	// that call back into it via mainthread.Call.
	pixelgl.Run(cmd.Execute)
}
