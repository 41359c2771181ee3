package core

import (
	"sort"
	"strings"
	"time"
)

// The derivation layer recomputes dashboard aggregates from the store
// on every call. Nothing here caches or mutates.

// TotalSessionCount counts every stored session, including those in
// orphan partitions whose wave id matches no program.
func (s *Service) TotalSessionCount() int {
	return len(s.store.ListSessions())
}

// SessionCountsByWave maps wave id to the size of its schedule. Every
// program appears, even with an empty schedule, and orphan partitions
// are counted under their dangling wave id so the totals agree with
// TotalSessionCount.
func (s *Service) SessionCountsByWave() map[string]int {
	counts := make(map[string]int)
	for _, p := range s.store.ListPrograms() {
		counts[p.ID] = 0
	}
	for _, session := range s.store.ListSessions() {
		counts[session.WaveID]++
	}
	return counts
}

// WaveSMENames returns the distinct SME names appearing in a wave's
// sessions, in first-seen order. The unassigned sentinel is excluded.
func (s *Service) WaveSMENames(waveID string) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, session := range s.store.ListSessionsForWave(waveID) {
		if session.SME == "" || session.SME == SMEUnassigned {
			continue
		}
		if _, ok := seen[session.SME]; ok {
			continue
		}
		seen[session.SME] = struct{}{}
		names = append(names, session.SME)
	}
	return names
}

// SessionTypeCounts breaks a wave's schedule down by delivery format.
func (s *Service) SessionTypeCounts(waveID string) map[SessionType]int {
	counts := make(map[SessionType]int)
	for _, session := range s.store.ListSessionsForWave(waveID) {
		counts[session.Type]++
	}
	return counts
}

// SMECountsByLocation tallies the SME directory by site.
func (s *Service) SMECountsByLocation() map[string]int {
	counts := make(map[string]int)
	for _, sme := range s.store.ListSMEs() {
		counts[sme.Location]++
	}
	return counts
}

// VendorLocation is one cell coordinate of the capacity matrix.
type VendorLocation struct {
	Vendor   string `json:"vendor"`
	Location string `json:"location"`
}

// VendorCapacity is one computed cell of the capacity matrix.
type VendorCapacity struct {
	Vendor   string `json:"vendor"`
	Location string `json:"location"`
	SMECount int    `json:"sme_count"`
}

// VendorCapacityMatrix counts, for each (vendor, location) pair, the
// SMEs whose vendor list mentions the vendor and whose site matches the
// location exactly. Vendor matching is deliberately loose: an SME
// matches when any of its vendor entries contains the first word of the
// queried vendor name, case-insensitively, so "TP Colombia" pairs with
// an SME listing "TP" or "tp bogota".
func (s *Service) VendorCapacityMatrix(pairs []VendorLocation) []VendorCapacity {
	smes := s.store.ListSMEs()
	out := make([]VendorCapacity, 0, len(pairs))
	for _, pair := range pairs {
		needle := strings.ToLower(firstWord(pair.Vendor))
		count := 0
		for _, sme := range smes {
			if sme.Location != pair.Location {
				continue
			}
			for _, vendor := range sme.Vendors {
				if needle != "" && strings.Contains(strings.ToLower(vendor), needle) {
					count++
					break
				}
			}
		}
		out = append(out, VendorCapacity{Vendor: pair.Vendor, Location: pair.Location, SMECount: count})
	}
	return out
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var sessionTimeLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// parseStartMinutes converts a "H:MM AM/PM" start time to minutes past
// midnight. Unparseable input sorts to midnight rather than erroring,
// since the field is free text.
func parseStartMinutes(raw string) int {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range sessionTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	return 0
}

// SortSessionsByStart orders sessions ascending by parsed start time.
// The sort is stable so sessions with equal or unparseable times keep
// their partition order.
func SortSessionsByStart(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return parseStartMinutes(sessions[i].TimeStart) < parseStartMinutes(sessions[j].TimeStart)
	})
}

// DaySchedule returns a wave's sessions for one day, ordered by start
// time.
func (s *Service) DaySchedule(waveID, day string) []Session {
	var out []Session
	for _, session := range s.store.ListSessionsForWave(waveID) {
		if session.Day == day {
			out = append(out, session)
		}
	}
	SortSessionsByStart(out)
	return out
}
