// Package types provides shared data structures for the front-end engine.
//
// This package defines the values that cross package boundaries and the
// collaborator interfaces the engine consumes from its host.
//
// Core Types:
//   - GameRef: One entry of the game list
//   - Media: A loaded, renderable media result (image, video, audio, placeholder)
//   - Visual, Frame: Positioned, alpha/scale transformed handles submitted to the renderer
//   - Input: A key or joystick event
//   - Command: A bound input command (next, prev, select, exit, ...)
//   - LaunchNotice: A lifecycle notification from the external launcher
//
// Collaborators:
//   - GameProvider: Game list and filter access
//   - MediaResolver: Candidate media files for a game and media type
//   - Renderer: Draws submitted frames
//   - Launcher: Starts and monitors external game processes
//   - EffectClient: Feedback device accepting named on/off states
//   - CommandHandler: Host commands invoked from menus
//
// Context aggregates the collaborators. The host owns it; the engine
// borrows it for its lifetime.
package types
