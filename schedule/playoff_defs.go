package schedule

import "github.com/matchwerk/tournament-scheduler/models"

// SchedulePolicy controls whether a playoff match may share a slot with
// other matches of its wave.
type SchedulePolicy string

const (
	PolicySequential SchedulePolicy = "sequentialOnly"
	PolicyParallel   SchedulePolicy = "parallelAllowed"
)

// PlayoffDef is the abstract template for one knockout match. Defs exist
// only during generation; the playoff scheduler turns them into matches.
// DependsOn lists the matches whose results feed this one and, for the
// all-places chain, matches that merely have to be scheduled earlier.
type PlayoffDef struct {
	ID        string
	Label     string
	FinalType models.FinalType
	Home      models.Participant
	Away      models.Participant
	Rank      int // best finishing position decided by this match
	DependsOn []string
	Policy    SchedulePolicy
}

// GeneratePlayoffDefs expands a finals preset into concrete match
// definitions. The expansion degrades where the group count cannot carry
// the preset: top-8 needs four groups and falls back to top-4 below that,
// all-places needs exactly two groups for its placement chain and falls
// back to top-8 (with placement matches) at four groups or more, and to
// top-4 at three.
func GeneratePlayoffDefs(numberOfGroups int, cfg models.FinalsConfig) []PlayoffDef {
	if numberOfGroups < 2 {
		return nil
	}
	switch cfg.Preset {
	case models.PresetFinalOnly:
		return finalOnlyDefs()
	case models.PresetTop4:
		return top4Defs(numberOfGroups, cfg)
	case models.PresetTop8:
		if numberOfGroups < 4 {
			return top4Defs(numberOfGroups, cfg)
		}
		return top8Defs(cfg, false)
	case models.PresetAllPlaces:
		switch {
		case numberOfGroups >= 4:
			return top8Defs(cfg, true)
		case numberOfGroups == 3:
			return top4Defs(numberOfGroups, cfg)
		default:
			return allPlacesDefs(cfg)
		}
	default:
		return nil
	}
}

// finalOnlyDefs pits the first two group winners against each other. With
// more than two groups the shape stays the same; the remaining winners sit
// out, which is the preset's documented simplification.
func finalOnlyDefs() []PlayoffDef {
	return []PlayoffDef{
		{
			ID:        "final",
			Label:     "Final",
			FinalType: models.FinalTypeFinal,
			Home:      models.GroupRankRef("A", 1),
			Away:      models.GroupRankRef("B", 1),
			Rank:      1,
			Policy:    PolicySequential,
		},
	}
}

// top4Defs builds two semifinals, a third-place match and the final. Two
// groups seed cross-bracket (A2 vs B1, A1 vs B2). Three groups take the
// three winners plus the best runner-up. Four or more take the first four
// group winners.
func top4Defs(numberOfGroups int, cfg models.FinalsConfig) []PlayoffDef {
	semiPolicy := PolicySequential
	if cfg.ParallelSemifinals {
		semiPolicy = PolicyParallel
	}

	var semi1Home, semi1Away, semi2Home, semi2Away models.Participant
	switch {
	case numberOfGroups == 2:
		semi1Home, semi1Away = models.GroupRankRef("A", 2), models.GroupRankRef("B", 1)
		semi2Home, semi2Away = models.GroupRankRef("A", 1), models.GroupRankRef("B", 2)
	case numberOfGroups == 3:
		semi1Home, semi1Away = models.GroupRankRef("A", 1), models.BestSecondRef()
		semi2Home, semi2Away = models.GroupRankRef("B", 1), models.GroupRankRef("C", 1)
	default:
		semi1Home, semi1Away = models.GroupRankRef("A", 1), models.GroupRankRef("D", 1)
		semi2Home, semi2Away = models.GroupRankRef("B", 1), models.GroupRankRef("C", 1)
	}

	return []PlayoffDef{
		{
			ID:        "semi1",
			Label:     "Semifinal 1",
			FinalType: models.FinalTypeSemifinal,
			Home:      semi1Home,
			Away:      semi1Away,
			Rank:      1,
			Policy:    semiPolicy,
		},
		{
			ID:        "semi2",
			Label:     "Semifinal 2",
			FinalType: models.FinalTypeSemifinal,
			Home:      semi2Home,
			Away:      semi2Away,
			Rank:      1,
			Policy:    semiPolicy,
		},
		{
			ID:        "thirdPlace",
			Label:     "Third Place",
			FinalType: models.FinalTypeThirdPlace,
			Home:      models.BracketRef("semi1", models.OutcomeLoser),
			Away:      models.BracketRef("semi2", models.OutcomeLoser),
			Rank:      3,
			DependsOn: []string{"semi1", "semi2"},
			Policy:    PolicySequential,
		},
		{
			ID:        "final",
			Label:     "Final",
			FinalType: models.FinalTypeFinal,
			Home:      models.BracketRef("semi1", models.OutcomeWinner),
			Away:      models.BracketRef("semi2", models.OutcomeWinner),
			Rank:      1,
			DependsOn: []string{"semi1", "semi2"},
			Policy:    PolicySequential,
		},
	}
}

// top8Defs builds four quarterfinals with 1-vs-2 cross seeding over groups
// A-D, the semifinals fed by them, and the medal matches. withPlacements
// adds the 5th/6th and 7th/8th games between the quarterfinal losers,
// which the all-places preset asks for.
func top8Defs(cfg models.FinalsConfig, withPlacements bool) []PlayoffDef {
	qfPolicy := PolicySequential
	if cfg.ParallelQuarterfinals {
		qfPolicy = PolicyParallel
	}
	semiPolicy := PolicySequential
	if cfg.ParallelSemifinals {
		semiPolicy = PolicyParallel
	}

	defs := []PlayoffDef{
		{
			ID:        "qf1",
			Label:     "Quarterfinal 1",
			FinalType: models.FinalTypeQuarterfinal,
			Home:      models.GroupRankRef("A", 1),
			Away:      models.GroupRankRef("B", 2),
			Rank:      1,
			Policy:    qfPolicy,
		},
		{
			ID:        "qf2",
			Label:     "Quarterfinal 2",
			FinalType: models.FinalTypeQuarterfinal,
			Home:      models.GroupRankRef("B", 1),
			Away:      models.GroupRankRef("A", 2),
			Rank:      1,
			Policy:    qfPolicy,
		},
		{
			ID:        "qf3",
			Label:     "Quarterfinal 3",
			FinalType: models.FinalTypeQuarterfinal,
			Home:      models.GroupRankRef("C", 1),
			Away:      models.GroupRankRef("D", 2),
			Rank:      1,
			Policy:    qfPolicy,
		},
		{
			ID:        "qf4",
			Label:     "Quarterfinal 4",
			FinalType: models.FinalTypeQuarterfinal,
			Home:      models.GroupRankRef("D", 1),
			Away:      models.GroupRankRef("C", 2),
			Rank:      1,
			Policy:    qfPolicy,
		},
		{
			ID:        "semi1",
			Label:     "Semifinal 1",
			FinalType: models.FinalTypeSemifinal,
			Home:      models.BracketRef("qf1", models.OutcomeWinner),
			Away:      models.BracketRef("qf3", models.OutcomeWinner),
			Rank:      1,
			DependsOn: []string{"qf1", "qf3"},
			Policy:    semiPolicy,
		},
		{
			ID:        "semi2",
			Label:     "Semifinal 2",
			FinalType: models.FinalTypeSemifinal,
			Home:      models.BracketRef("qf2", models.OutcomeWinner),
			Away:      models.BracketRef("qf4", models.OutcomeWinner),
			Rank:      1,
			DependsOn: []string{"qf2", "qf4"},
			Policy:    semiPolicy,
		},
	}

	if withPlacements {
		defs = append(defs,
			PlayoffDef{
				ID:        "fifthPlace",
				Label:     "5th/6th Place",
				FinalType: models.FinalTypePlacement,
				Home:      models.BracketRef("qf1", models.OutcomeLoser),
				Away:      models.BracketRef("qf3", models.OutcomeLoser),
				Rank:      5,
				DependsOn: []string{"qf1", "qf3"},
				Policy:    PolicyParallel,
			},
			PlayoffDef{
				ID:        "seventhPlace",
				Label:     "7th/8th Place",
				FinalType: models.FinalTypePlacement,
				Home:      models.BracketRef("qf2", models.OutcomeLoser),
				Away:      models.BracketRef("qf4", models.OutcomeLoser),
				Rank:      7,
				DependsOn: []string{"qf2", "qf4"},
				Policy:    PolicyParallel,
			},
		)
	}

	return append(defs,
		PlayoffDef{
			ID:        "thirdPlace",
			Label:     "Third Place",
			FinalType: models.FinalTypeThirdPlace,
			Home:      models.BracketRef("semi1", models.OutcomeLoser),
			Away:      models.BracketRef("semi2", models.OutcomeLoser),
			Rank:      3,
			DependsOn: []string{"semi1", "semi2"},
			Policy:    PolicySequential,
		},
		PlayoffDef{
			ID:        "final",
			Label:     "Final",
			FinalType: models.FinalTypeFinal,
			Home:      models.BracketRef("semi1", models.OutcomeWinner),
			Away:      models.BracketRef("semi2", models.OutcomeWinner),
			Rank:      1,
			DependsOn: []string{"semi1", "semi2"},
			Policy:    PolicySequential,
		},
	)
}

// allPlacesDefs is the two-group shape that plays out every position:
// semifinals, then 7th place (the two group fourths), then 5th place (the
// two group thirds), then third place, then the final. The placement games
// do not take their teams from the semifinals, but they still depend on
// them so the stages stay in this exact order even on a single field.
func allPlacesDefs(cfg models.FinalsConfig) []PlayoffDef {
	semiPolicy := PolicySequential
	if cfg.ParallelSemifinals {
		semiPolicy = PolicyParallel
	}

	return []PlayoffDef{
		{
			ID:        "semi1",
			Label:     "Semifinal 1",
			FinalType: models.FinalTypeSemifinal,
			Home:      models.GroupRankRef("A", 2),
			Away:      models.GroupRankRef("B", 1),
			Rank:      1,
			Policy:    semiPolicy,
		},
		{
			ID:        "semi2",
			Label:     "Semifinal 2",
			FinalType: models.FinalTypeSemifinal,
			Home:      models.GroupRankRef("A", 1),
			Away:      models.GroupRankRef("B", 2),
			Rank:      1,
			Policy:    semiPolicy,
		},
		{
			ID:        "seventhPlace",
			Label:     "7th/8th Place",
			FinalType: models.FinalTypePlacement,
			Home:      models.GroupRankRef("A", 4),
			Away:      models.GroupRankRef("B", 4),
			Rank:      7,
			DependsOn: []string{"semi1", "semi2"},
			Policy:    PolicySequential,
		},
		{
			ID:        "fifthPlace",
			Label:     "5th/6th Place",
			FinalType: models.FinalTypePlacement,
			Home:      models.GroupRankRef("A", 3),
			Away:      models.GroupRankRef("B", 3),
			Rank:      5,
			DependsOn: []string{"seventhPlace"},
			Policy:    PolicySequential,
		},
		{
			ID:        "thirdPlace",
			Label:     "Third Place",
			FinalType: models.FinalTypeThirdPlace,
			Home:      models.BracketRef("semi1", models.OutcomeLoser),
			Away:      models.BracketRef("semi2", models.OutcomeLoser),
			Rank:      3,
			DependsOn: []string{"semi1", "semi2", "fifthPlace"},
			Policy:    PolicySequential,
		},
		{
			ID:        "final",
			Label:     "Final",
			FinalType: models.FinalTypeFinal,
			Home:      models.BracketRef("semi1", models.OutcomeWinner),
			Away:      models.BracketRef("semi2", models.OutcomeWinner),
			Rank:      1,
			DependsOn: []string{"semi1", "semi2", "thirdPlace"},
			Policy:    PolicySequential,
		},
	}
}
