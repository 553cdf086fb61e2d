// Package games provides the YAML-backed game list.
//
// The file format is:
//
//	games:
//	  - id: afm
//	    title: Attack from Mars
//	    manufacturer: Bally
//	    year: 1995
//	    system: VPX
//	    path: tables/Attack from Mars.vpx
//	    favorite: true
//
// Filters: "all", "favorites", "system:<name>" and "year:<decade>" for
// every system and decade present in the list.
package games
