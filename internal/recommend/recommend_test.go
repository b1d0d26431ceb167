package recommend

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

type staticSource []scheduling.Provider

func (s staticSource) ListActiveProviders(_ context.Context, specialty string) ([]scheduling.Provider, error) {
	if specialty == "" {
		return s, nil
	}
	var out []scheduling.Provider
	for _, p := range s {
		if p.Specialty != nil && *p.Specialty == specialty {
			out = append(out, p)
		}
	}
	return out, nil
}

func provider(name, specialty string, years int, fee float64) scheduling.Provider {
	return scheduling.Provider{
		ID:              uuid.New(),
		Name:            name,
		Specialty:       &specialty,
		ExperienceYears: years,
		ConsultationFee: fee,
		Active:          true,
	}
}

func TestScore(t *testing.T) {
	card := provider("Dr. Vega", "cardiology", 10, 80)

	t.Run("experience caps at twenty", func(t *testing.T) {
		young := provider("A", "cardiology", 3, 0)
		veteran := provider("B", "cardiology", 30, 0)
		senior := provider("C", "cardiology", 10, 0)
		if Score(veteran, Request{}) != Score(senior, Request{}) {
			t.Fatal("experience beyond ten years must not add score")
		}
		if Score(young, Request{}) >= Score(senior, Request{}) {
			t.Fatal("more experience must score higher below the cap")
		}
	})

	t.Run("cheaper provider scores better within budget", func(t *testing.T) {
		cheap := provider("A", "cardiology", 10, 40)
		req := Request{MaxFee: 100}
		if Score(cheap, req) <= Score(card, req) {
			t.Fatal("lower fee must score higher under the same budget")
		}
	})

	t.Run("over budget is penalized", func(t *testing.T) {
		req := Request{MaxFee: 50}
		if Score(card, req) >= Score(card, Request{MaxFee: 100}) {
			t.Fatal("exceeding the budget must cost score")
		}
	})

	t.Run("no fee preference ignores fees", func(t *testing.T) {
		expensive := provider("A", "cardiology", 10, 500)
		if Score(expensive, Request{}) != Score(card, Request{}) {
			t.Fatal("without MaxFee the fee must not matter")
		}
	})

	t.Run("matching symptoms add score", func(t *testing.T) {
		withMatch := Score(card, Request{Symptoms: "chest pain and palpitations"})
		without := Score(card, Request{Symptoms: "itchy rash"})
		if withMatch <= without {
			t.Fatalf("symptom match = %v, no match = %v", withMatch, without)
		}
	})

	t.Run("inactive provider scores lower", func(t *testing.T) {
		inactive := card
		inactive.Active = false
		if Score(inactive, Request{}) >= Score(card, Request{}) {
			t.Fatal("inactive provider must score lower")
		}
	})
}

func TestRecommend(t *testing.T) {
	source := staticSource{
		provider("Dr. Vega", "cardiology", 15, 80),
		provider("Dr. Ito", "cardiology", 2, 60),
		provider("Dr. Lund", "dermatology", 8, 70),
		provider("Dr. Park", "cardiology", 12, 90),
		provider("Dr. Sol", "cardiology", 7, 50),
		provider("Dr. Mei", "cardiology", 9, 75),
		provider("Dr. Roa", "cardiology", 1, 40),
	}
	r := NewRecommender(source)

	t.Run("caps at five and orders by score", func(t *testing.T) {
		got, err := r.Recommend(context.Background(), Request{})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("got %d providers, want 5", len(got))
		}
		prev := Score(got[0], Request{})
		for _, p := range got[1:] {
			s := Score(p, Request{})
			if s > prev {
				t.Fatal("results not ordered by descending score")
			}
			prev = s
		}
	})

	t.Run("specialty filter applies", func(t *testing.T) {
		got, err := r.Recommend(context.Background(), Request{Specialty: "dermatology"})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Dr. Lund" {
			t.Fatalf("got %v, want only Dr. Lund", got)
		}
	})

	t.Run("no candidates yields empty result", func(t *testing.T) {
		got, err := r.Recommend(context.Background(), Request{Specialty: "neurology"})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("got %v, want none", got)
		}
	})
}
