// Package recommend ranks active providers for a patient's stated needs.
// It is a standalone heuristic with no scheduling invariants: the scorer is
// a pure function over a provider snapshot.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

const maxResults = 5

// Request carries the patient's constraints. Zero values mean "no
// preference".
type Request struct {
	Specialty string
	Symptoms  string
	MaxFee    float64
}

// ProviderSource lists candidate providers; *scheduling.PgRepository
// implements it.
type ProviderSource interface {
	ListActiveProviders(ctx context.Context, specialty string) ([]scheduling.Provider, error)
}

type Recommender struct {
	source ProviderSource
}

func NewRecommender(source ProviderSource) *Recommender {
	return &Recommender{source: source}
}

// Recommend returns up to five providers ordered by descending score.
// Providers scoring zero or below are dropped.
func (r *Recommender) Recommend(ctx context.Context, req Request) ([]scheduling.Provider, error) {
	candidates, err := r.source.ListActiveProviders(ctx, req.Specialty)
	if err != nil {
		return nil, fmt.Errorf("list candidate providers: %w", err)
	}

	type scored struct {
		provider scheduling.Provider
		score    float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		if s := Score(p, req); s > 0 {
			ranked = append(ranked, scored{provider: p, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	result := make([]scheduling.Provider, len(ranked))
	for i, s := range ranked {
		result[i] = s.provider
	}
	return result, nil
}

// Score rates one provider against the request. Components: a flat base,
// experience capped at 20, fee fit up to 15 (over budget costs 10), activity
// 15, and symptom keyword match against the provider's specialty and bio up
// to 15.
func Score(p scheduling.Provider, req Request) float64 {
	score := 10.0

	score += min(float64(p.ExperienceYears)*2.0, 20.0)

	if req.MaxFee > 0 {
		if p.ConsultationFee <= req.MaxFee {
			feeRatio := p.ConsultationFee / req.MaxFee
			score += (1.0 - feeRatio) * 15.0
		} else {
			score -= 10.0
		}
	}

	if p.Active {
		score += 15.0
	}

	if req.Symptoms != "" {
		score += symptomMatch(p, req.Symptoms)
	}

	return score
}

// specialtyKeywords relates each specialty to symptom terms it handles.
var specialtyKeywords = map[string][]string{
	"general practice": {"fever", "headache", "stomach", "diarrhea", "cough", "sore throat", "fatigue"},
	"pediatrics":       {"child", "fever", "vaccine", "growth", "allergy", "rash"},
	"orthopedics":      {"bone", "joint", "knee", "shoulder", "back", "pain", "injury"},
	"ent":              {"ear", "throat", "nose", "sore throat", "hoarse", "sneezing"},
	"ophthalmology":    {"eye", "vision", "blurry", "dry eye", "red eye"},
	"cardiology":       {"heart", "palpitation", "breath", "swelling", "chest pain"},
	"dermatology":      {"rash", "itch", "skin", "acne", "allergy", "wound"},
	"psychiatry":       {"stress", "depression", "insomnia", "anxiety", "mood"},
	"neurology":        {"headache", "migraine", "numbness", "dizziness", "seizure"},
	"endocrinology":    {"thyroid", "diabetes", "weight", "hormone", "fatigue"},
}

func symptomMatch(p scheduling.Provider, symptoms string) float64 {
	if p.Specialty == nil {
		return 5.0
	}

	symptomText := strings.ToLower(symptoms)
	bio := ""
	if p.Bio != nil {
		bio = strings.ToLower(*p.Bio)
	}

	match := 0.0
	for _, keyword := range specialtyKeywords[strings.ToLower(*p.Specialty)] {
		if strings.Contains(symptomText, keyword) || strings.Contains(bio, keyword) {
			match += 2.0
		}
	}
	return min(match, 15.0)
}
