package main

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestWeightStats(t *testing.T) {
	codes := []uint8{
		128, 129, 127, // mean 0
		0, 255, 128, // clipped both ends
	}
	stats := weightStats("pointwise", codes, 3, 0.5, 128)
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	s := stats[0]
	if s.Min != -0.5 || s.Max != 0.5 || s.Mean != 0 || s.Zeros != 1 || s.Clipped != 0 {
		t.Fatalf("channel 0 = %+v", s)
	}
	s = stats[1]
	if s.Min != -64 || s.Max != 63.5 || s.Clipped != 2 || s.Channel != 1 {
		t.Fatalf("channel 1 = %+v", s)
	}
}

func TestWeightStatsPartialGroup(t *testing.T) {
	if got := weightStats("depthwise", make([]uint8, 10), 9, 1, 0); len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got := weightStats("depthwise", nil, 0, 1, 0); got != nil {
		t.Fatalf("per=0 should yield nil, got %v", got)
	}
}

func TestStageStats(t *testing.T) {
	var s stageStats
	if s.mean() != 0 {
		t.Fatal("empty mean should be 0")
	}
	for _, d := range []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond} {
		s.add(d)
	}
	if s.min != time.Millisecond || s.max != 3*time.Millisecond || s.mean() != 2*time.Millisecond {
		t.Fatalf("min/mean/max = %v/%v/%v", s.min, s.mean(), s.max)
	}
}

func TestSyntheticBundle(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b := syntheticBundle(3, 10, r)
	if len(b.Depthwise) != 27 || len(b.Pointwise) != 30 || len(b.Labels) != 10 {
		t.Fatalf("lengths = %d/%d/%d", len(b.Depthwise), len(b.Pointwise), len(b.Labels))
	}
	if b.Labels[9] != "9" {
		t.Fatalf("labels = %v", b.Labels)
	}
	img := randomImage(4, 5, r)
	if img.W != 5 || img.H != 4 || len(img.Pix) != 60 {
		t.Fatalf("image = %dx%d/%d", img.W, img.H, len(img.Pix))
	}
}
