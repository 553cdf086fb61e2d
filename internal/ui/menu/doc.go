// Package menu implements the menu sub-state-machine.
//
// One Machine shows at most one menu. A menu opens with a cubic scale and
// fade, settles at Steady, and closes the same way in reverse. The mode
// controller decides when menus open and close; the machine only animates
// the instance it was given and reports settled phases back.
package menu
