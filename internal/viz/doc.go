// Package viz is the terminal front end of the linkage simulator.
//
// [Model] is a Bubble Tea program around a [pbd.World] built from a config.
// The world is drawn on a braille [Canvas] through a [Viewport]; a side panel
// shows elapsed time, counts, the selected particle and a chart of the worst
// link stretch.
//
// # Key Bindings
//
//	Space      - Pause/Resume
//	N          - Single step while paused
//	Tab        - Select next particle (Shift+Tab previous)
//	Arrows     - Drag the selected particle
//	P          - Toggle pin on the selected particle
//	A / L      - Add a particle at the mouse cursor / link two particles
//	C / R      - Clear the world / rebuild the configured scene
//	T          - Cycle color themes
//	G          - Toggle GIF recording
//
// # Hot Reload
//
// A [Watcher] on the config file feeds [Model.WithReloads]; every saved
// change rebuilds the scene.
package viz
