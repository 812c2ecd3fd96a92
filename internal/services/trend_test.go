package services

import (
	"context"
	"testing"
)

func TestGetTrendsFallback(t *testing.T) {
	env := newTestEnv(t)

	trends, err := env.trends.GetTrends(context.Background())
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(trends) == 0 {
		t.Fatal("empty store returned no trends, want fallback list")
	}
	if trends[0].Hashtag != "#welcome" {
		t.Errorf("fallback[0] = %s, want #welcome", trends[0].Hashtag)
	}
}

func TestGetTrendsRanking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	counters := &trendStore{env.store}
	for i := 0; i < 3; i++ {
		if err := counters.Increment(ctx, "#golang"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := counters.Increment(ctx, "#coffee"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	trends, err := env.trends.GetTrends(ctx)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("got %d trends, want 2", len(trends))
	}
	if trends[0].Hashtag != "#golang" || trends[0].Count != 3 {
		t.Errorf("top trend = %s/%d, want #golang/3", trends[0].Hashtag, trends[0].Count)
	}
}
