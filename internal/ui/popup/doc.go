// Package popup implements the popup sub-state-machine: info boxes, flyers,
// instruction cards, rating and volume adjusters, error messages and
// script-defined popups. One popup is live at a time and fades linearly.
package popup
