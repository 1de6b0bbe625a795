package schedule

import (
	"fmt"
	"sort"

	"github.com/matchwerk/tournament-scheduler/models"
)

// ResolveResult is the outcome of one resolver pass. Resolvers never fail:
// a run that has nothing to do reports WasResolved false and says why in
// Message. UpdatedMatches holds the complete new match slice; callers swap
// it in (or persist the entries named by UpdatedMatchIDs) instead of the
// resolver mutating shared state.
type ResolveResult struct {
	WasResolved     bool           `json:"wasResolved"`
	UpdatedMatches  []models.Match `json:"updatedMatches,omitempty"`
	Message         string         `json:"message"`
	UpdatedMatchIDs []string       `json:"updatedMatchIds,omitempty"`
}

// AreAllGroupMatchesCompleted reports whether the group phase is finished:
// at least one group match exists and every group match has both scores.
func AreAllGroupMatchesCompleted(matches []models.Match) bool {
	found := false
	for _, m := range matches {
		if !m.IsGroupMatch() {
			continue
		}
		found = true
		if !m.IsPlayed() {
			return false
		}
	}
	return found
}

// NeedsPlayoffResolution reports whether any playoff match still carries a
// placeholder side.
func NeedsPlayoffResolution(matches []models.Match) bool {
	for _, m := range matches {
		if m.IsFinal && m.HasPlaceholder() {
			return true
		}
	}
	return false
}

// ResolvePlayoffPairings fills playoff placeholders from the current group
// standings and from completed knockout matches. It refuses to run before
// the group phase is finished and when nothing is left to resolve, so
// calling it repeatedly is harmless. Slots that already hold a team are
// never revisited here; only ForceReResolvePlayoffs rewrites them.
func ResolvePlayoffPairings(t *models.Tournament) ResolveResult {
	if !AreAllGroupMatchesCompleted(t.Matches) {
		return ResolveResult{Message: "group phase is not finished yet"}
	}
	if !NeedsPlayoffResolution(t.Matches) {
		return ResolveResult{Message: "all playoff pairings are already resolved"}
	}

	standings := StandingsByGroup(t)
	out := cloneMatches(t.Matches)
	var ids []string
	for i := range out {
		if !out[i].IsFinal {
			continue
		}
		if resolveMatchSlots(&out[i], standings, out) {
			ids = append(ids, out[i].ID)
		}
	}

	return ResolveResult{
		WasResolved:     len(ids) > 0,
		UpdatedMatches:  out,
		Message:         fmt.Sprintf("resolved %d playoff matches", len(ids)),
		UpdatedMatchIDs: ids,
	}
}

// AutoResolvePlayoffsIfReady is the hook match entry calls after every group
// result. The guards inside ResolvePlayoffPairings make it a no-op until the
// last group score lands, and a no-op again once the pairings are out.
func AutoResolvePlayoffsIfReady(t *models.Tournament) ResolveResult {
	return ResolvePlayoffPairings(t)
}

// ResolveBracketAfterPlayoffMatch is the hook for knockout results: once a
// semifinal is played, the final's winner slots become resolvable without
// another standings pass. It re-attempts every placeholder slot, leaving
// resolved ones untouched; group-derived slots only resolve when the group
// phase is complete.
func ResolveBracketAfterPlayoffMatch(t *models.Tournament) ResolveResult {
	var standings map[string][]models.Standing
	if AreAllGroupMatchesCompleted(t.Matches) {
		standings = StandingsByGroup(t)
	}

	out := cloneMatches(t.Matches)
	var ids []string
	for i := range out {
		if !out[i].IsFinal || !out[i].HasPlaceholder() {
			continue
		}
		if resolveMatchSlots(&out[i], standings, out) {
			ids = append(ids, out[i].ID)
		}
	}

	return ResolveResult{
		WasResolved:     len(ids) > 0,
		UpdatedMatches:  out,
		Message:         fmt.Sprintf("resolved %d playoff matches", len(ids)),
		UpdatedMatchIDs: ids,
	}
}

// NeedsPlayoffReResolution reports drift: a playoff match whose resolved
// teams no longer match what current standings would produce, typically
// after a corrected group score flipped a table. Only matches whose sides
// derive purely from group standings are checked, since bracket-fed matches
// have no expected teams short of replaying the knockout rounds. Resolution
// is never triggered automatically off this signal; pairings that were
// published once stay put until an explicit forced re-resolution.
func NeedsPlayoffReResolution(t *models.Tournament) bool {
	if !AreAllGroupMatchesCompleted(t.Matches) {
		return false
	}
	expected := expectedGroupDerived(t)
	if len(expected) == 0 {
		return false
	}

	standings := StandingsByGroup(t)
	for _, m := range t.Matches {
		if !m.IsFinal {
			continue
		}
		exp, ok := expected[m.ID]
		if !ok {
			continue
		}
		if driftedSlot(m.TeamA, exp[0], standings, t.Matches) ||
			driftedSlot(m.TeamB, exp[1], standings, t.Matches) {
			return true
		}
	}
	return false
}

// ForceReResolvePlayoffs recomputes every group-derived playoff pairing from
// the standings as they are now, with no completion guard. A match whose
// participants change loses its scores: the old result belonged to a
// different matchup.
func ForceReResolvePlayoffs(t *models.Tournament) ResolveResult {
	standings := StandingsByGroup(t)
	expected := expectedGroupDerived(t)
	out := cloneMatches(t.Matches)

	var ids []string
	for i := range out {
		m := &out[i]
		exp, ok := expected[m.ID]
		if !ok {
			continue
		}
		changed := false
		if want, ok := resolvePlaceholder(exp[0], standings, out); ok && want.TeamID != m.TeamA.TeamID {
			m.TeamA = want
			changed = true
		}
		if want, ok := resolvePlaceholder(exp[1], standings, out); ok && want.TeamID != m.TeamB.TeamID {
			m.TeamB = want
			changed = true
		}
		if changed {
			m.ScoreA, m.ScoreB = nil, nil
			ids = append(ids, m.ID)
		}
	}

	return ResolveResult{
		WasResolved:     len(ids) > 0,
		UpdatedMatches:  out,
		Message:         fmt.Sprintf("re-resolved %d playoff matches", len(ids)),
		UpdatedMatchIDs: ids,
	}
}

// resolveMatchSlots resolves whichever sides of m are still placeholders.
// Sides resolve independently; a match can end up half resolved when one
// source is ready and the other is not.
func resolveMatchSlots(m *models.Match, standings map[string][]models.Standing, matches []models.Match) bool {
	changed := false
	if m.TeamA.IsPlaceholder() {
		if p, ok := resolvePlaceholder(m.TeamA, standings, matches); ok {
			m.TeamA = p
			changed = true
		}
	}
	if m.TeamB.IsPlaceholder() {
		if p, ok := resolvePlaceholder(m.TeamB, standings, matches); ok {
			m.TeamB = p
			changed = true
		}
	}
	return changed
}

// resolvePlaceholder narrows one symbolic side to a team, or reports that it
// cannot yet. A bracket reference needs its source match fully resolved,
// played and not drawn; a drawn knockout match names no winner until someone
// enters a decider. bestSecond takes the runner-up of the first group in key
// order; comparing records across groups was never implemented, and stored
// schedules rely on the stable pick.
func resolvePlaceholder(p models.Participant, standings map[string][]models.Standing, matches []models.Match) (models.Participant, bool) {
	switch p.Kind {
	case models.ParticipantGroupRank:
		rows := standings[p.Group]
		if p.Rank < 1 || p.Rank > len(rows) {
			return p, false
		}
		return models.TeamRef(rows[p.Rank-1].Team.ID), true

	case models.ParticipantBestSecond:
		for _, key := range sortedKeys(standings) {
			if rows := standings[key]; len(rows) >= 2 {
				return models.TeamRef(rows[1].Team.ID), true
			}
		}
		return p, false

	case models.ParticipantBracket:
		source, ok := models.FindMatch(matches, p.MatchID)
		if !ok {
			return p, false
		}
		var id string
		if p.Outcome == models.OutcomeLoser {
			id, ok = source.LoserTeamID()
		} else {
			id, ok = source.WinnerTeamID()
		}
		if !ok {
			return p, false
		}
		return models.TeamRef(id), true

	default:
		return p, false
	}
}

// expectedGroupDerived regenerates the playoff definitions for the
// tournament's preset and keeps those whose sides both come from group
// standings. The map gives, per match ID, the participants the standings
// would assign today.
func expectedGroupDerived(t *models.Tournament) map[string][2]models.Participant {
	settings := t.EffectiveSettings()
	defs := GeneratePlayoffDefs(effectiveGroupCount(t), settings.EffectiveFinals())
	out := make(map[string][2]models.Participant, len(defs))
	for _, d := range defs {
		if d.Home.Kind == models.ParticipantBracket || d.Away.Kind == models.ParticipantBracket {
			continue
		}
		out[d.ID] = [2]models.Participant{d.Home, d.Away}
	}
	return out
}

// driftedSlot reports whether a resolved slot disagrees with what the
// current standings would put there. Unresolved slots never drift; they are
// plain resolution work.
func driftedSlot(current, expected models.Participant, standings map[string][]models.Standing, matches []models.Match) bool {
	if !current.IsResolved() {
		return false
	}
	want, ok := resolvePlaceholder(expected, standings, matches)
	if !ok {
		return false
	}
	return want.TeamID != current.TeamID
}

// cloneMatches copies the slice so resolution can build a new state without
// touching the caller's. Score pointers stay shared; resolvers only ever
// reassign them, never write through.
func cloneMatches(matches []models.Match) []models.Match {
	out := make([]models.Match, len(matches))
	copy(out, matches)
	for i := range out {
		if len(out[i].DependsOn) > 0 {
			out[i].DependsOn = append([]string(nil), out[i].DependsOn...)
		}
	}
	return out
}

func sortedKeys(m map[string][]models.Standing) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// effectiveGroupCount prefers the configured group count and falls back to
// counting the groups teams are actually assigned to.
func effectiveGroupCount(t *models.Tournament) int {
	if t.NumberOfGroups > 0 {
		return t.NumberOfGroups
	}
	return len(models.TeamsByGroup(t.Teams))
}
