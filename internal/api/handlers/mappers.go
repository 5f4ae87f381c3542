package handlers

import (
	"log"
	"time"

	"fulfillment-cutoff-service/internal/api/dto"
	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/services"
)

func ruleSetFromPayload(p dto.CutoffRuleSetPayload) (*domain.LocationCutoffRuleSet, error) {
	rs := &domain.LocationCutoffRuleSet{
		LocationID:      p.LocationID,
		TimeZoneID:      p.TimeZoneID,
		DivisionRules:   make(map[domain.Division]domain.DivisionCutoffRule, len(p.DivisionRules)),
		BlackoutWindows: make([]domain.BlackoutWindow, 0, len(p.BlackoutWindows)),
	}

	for key, r := range p.DivisionRules {
		div, err := domain.ParseDivision(key)
		if err != nil {
			return nil, &domain.ConfigurationError{
				LocationID: p.LocationID,
				Field:      "divisionRules",
				Value:      key,
				Reason:     "unknown division",
			}
		}
		days := make([]time.Weekday, 0, len(r.ValidShipDays))
		for _, d := range r.ValidShipDays {
			days = append(days, time.Weekday(d))
		}
		rs.DivisionRules[div] = domain.DivisionCutoffRule{
			CutoffTime:            r.CutoffTime,
			NextDayPromiseEnabled: r.NextDayPromiseEnabled,
			ValidShipDays:         days,
			SameDayPickupEnabled:  r.SameDayPickupEnabled,
		}
	}

	for _, bw := range p.BlackoutWindows {
		rs.BlackoutWindows = append(rs.BlackoutWindows, domain.BlackoutWindow{
			StartDateKey: bw.StartDate,
			EndDateKey:   bw.EndDate,
			Reason:       bw.Reason,
		})
	}

	return rs, nil
}

func ruleSetToPayload(rs *domain.LocationCutoffRuleSet) dto.CutoffRuleSetPayload {
	p := dto.CutoffRuleSetPayload{
		LocationID:      rs.LocationID,
		TimeZoneID:      rs.TimeZoneID,
		DivisionRules:   make(map[string]dto.DivisionRulePayload, len(rs.DivisionRules)),
		BlackoutWindows: make([]dto.BlackoutWindowPayload, 0, len(rs.BlackoutWindows)),
	}
	if !rs.UpdatedAt.IsZero() {
		t := rs.UpdatedAt
		p.UpdatedAt = &t
	}

	for div, r := range rs.DivisionRules {
		days := make([]int, 0, len(r.ValidShipDays))
		for _, d := range r.ValidShipDays {
			days = append(days, int(d))
		}
		p.DivisionRules[string(div)] = dto.DivisionRulePayload{
			CutoffTime:            r.CutoffTime,
			NextDayPromiseEnabled: r.NextDayPromiseEnabled,
			ValidShipDays:         days,
			SameDayPickupEnabled:  r.SameDayPickupEnabled,
		}
	}

	for _, bw := range rs.BlackoutWindows {
		p.BlackoutWindows = append(p.BlackoutWindows, dto.BlackoutWindowPayload{
			StartDate: bw.StartDateKey,
			EndDate:   bw.EndDateKey,
			Reason:    bw.Reason,
		})
	}

	return p
}

func configurationErrorResponse(err error) dto.ConfigurationErrorResponse {
	res := dto.ConfigurationErrorResponse{Error: "invalid cutoff configuration"}
	for _, ce := range domain.ConfigurationErrors(err) {
		res.Details = append(res.Details, dto.ConfigurationErrorDetail{
			LocationID: ce.LocationID,
			Field:      ce.Field,
			Value:      ce.Value,
			Reason:     ce.Reason,
		})
	}
	return res
}

func cutoffStatusResponse(u services.CutoffUpdate) dto.CutoffStatusResponse {
	s := u.Status
	return dto.CutoffStatusResponse{
		LocationID:           u.LocationID,
		Division:             string(u.Division),
		DivisionLabel:        divisionLabel(u.Division),
		TimeZoneID:           u.TimeZoneID,
		Indicator:            string(u.Indicator),
		RuleFound:            s.RuleFound,
		MinutesRemaining:     s.MinutesRemaining,
		IsValidShipDay:       s.IsValidShipDay,
		IsBlackedOut:         s.IsBlackedOut,
		PromiseEnabled:       s.PromiseEnabled,
		PromiseAvailable:     s.PromiseAvailable,
		SameDayPickupEnabled: s.SameDayPickupEnabled,
		CutoffTime:           s.CutoffTime,
		LocalDate:            s.LocalDateKey,
		BlackoutReason:       s.BlackoutReason,
		EvaluatedAt:          u.At,
	}
}

// reasonResponse renders one reason. Codes outside the closed set are a
// programming error; they still render, with the raw code as title.
func reasonResponse(r domain.Reason) dto.ReasonResponse {
	title, ok := r.Code.Title()
	if !ok {
		log.Printf("unknown reason code=%s", r.Code)
		title = string(r.Code)
	}
	return dto.ReasonResponse{
		Code:   string(r.Code),
		Title:  title,
		Label:  r.Label,
		Impact: string(r.Impact),
	}
}

func suggestionResponse(s domain.FulfillmentSuggestion, division domain.Division, at time.Time) dto.SuggestionResponse {
	reasons := make([]dto.ReasonResponse, 0, len(s.Reasons))
	for _, r := range s.Reasons {
		reasons = append(reasons, reasonResponse(r))
	}

	return dto.SuggestionResponse{
		LocationID:    s.LocationID,
		Name:          s.Name,
		Rank:          s.Rank,
		TotalScore:    s.TotalScore,
		IsRecommended: s.IsRecommended,
		Reasons:       reasons,
		ComponentScores: dto.ComponentScoresResponse{
			Inventory:  s.ComponentScores.Inventory,
			Cutoff:     s.ComponentScores.Cutoff,
			Processing: s.ComponentScores.Processing,
			Distance:   s.ComponentScores.Distance,
		},
		DistanceMiles: s.DistanceMiles,
		DistanceLabel: string(s.DistanceBand),
		Cutoff: cutoffStatusResponse(services.CutoffUpdate{
			LocationID: s.LocationID,
			Division:   division,
			Status:     s.Cutoff,
			Indicator:  s.Cutoff.Indicator(),
			At:         at,
		}),
	}
}

func divisionLabel(d domain.Division) string {
	if label, ok := d.Label(); ok {
		return label
	}
	return string(d)
}
