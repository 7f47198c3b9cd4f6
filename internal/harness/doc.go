// Package harness runs journaling scenarios end to end.
//
// A scenario writes successive versions of one or more files into a scratch
// directory, feeds each write through the tracker exactly as the watcher
// would, and then checks the journals that resulted.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: replace_middle_line
//	description: "Changing one line journals a remove and an add"
//	retention: 50        # optional, journal.DefaultCap when omitted
//	format: v2           # optional, v2 or legacy
//	steps:
//	  - file: notes.txt
//	    lines: [a, b, c]
//	  - file: notes.txt
//	    lines: [a, x, c]
//	  - file: notes.txt
//	    delete: true
//	assertions:
//	  - type: state
//	    file: notes.txt
//	    lines: []
//	  - type: entry_count
//	    file: notes.txt
//	    count: 7
//
// # Assertion Types
//
//   - state: replaying the whole journal yields lines
//   - state_since: replaying entries at or after since yields lines
//   - entry_count: the journal holds exactly count entries
//   - entry_absent: no entry carries content
//   - matches_file: replaying the journal yields the file's current lines
//
// # Deterministic Runs
//
// Every run uses a fresh in-memory SQLite journal store, a
// testutil.DeterministicClock starting at testutil.DefaultEpoch and a fixed
// session id, so the journals of a scenario are byte-identical across runs
// and can be compared against golden files.
package harness
