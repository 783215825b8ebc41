package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/crosswiki/internal/model"
)

type stubClassifier struct {
	scores map[string]Scores
	failOn string
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) Available(ctx context.Context) bool { return true }

func (s *stubClassifier) Classify(ctx context.Context, sentence string, labels []string) (Scores, error) {
	if sentence == s.failOn {
		return nil, errors.New("provider error")
	}
	if sc, ok := s.scores[sentence]; ok {
		return sc, nil
	}
	return Scores{"neutral": 1}, nil
}

func TestScores_Top(t *testing.T) {
	s := Scores{"puffery": 0.2, "weasel_words": 0.7, "neutral": 0.1}
	label, score := s.Top()
	if label != "weasel_words" || score != 0.7 {
		t.Errorf("Top = %q/%v, want weasel_words/0.7", label, score)
	}

	label, score = Scores{}.Top()
	if label != "" || score != 0 {
		t.Errorf("empty Top = %q/%v, want zero values", label, score)
	}
}

func TestNew(t *testing.T) {
	c, err := New(model.ClassifierConfig{})
	if c != nil || err != nil {
		t.Errorf("empty provider = %v/%v, want nil/nil", c, err)
	}

	if _, err := New(model.ClassifierConfig{Provider: "acme"}); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestClassifyBatch_IndexAligned(t *testing.T) {
	sentences := make([]string, 12)
	scores := make(map[string]Scores, len(sentences))
	for i := range sentences {
		sentences[i] = fmt.Sprintf("sentence number %d", i)
		scores[sentences[i]] = Scores{"puffery": float64(i) / 100}
	}
	stub := &stubClassifier{scores: scores}

	got, err := ClassifyBatch(context.Background(), stub, sentences, []string{"puffery", "neutral"}, 5, 3)
	if err != nil {
		t.Fatalf("ClassifyBatch returned error: %v", err)
	}
	if len(got) != len(sentences) {
		t.Fatalf("results = %d, want %d", len(got), len(sentences))
	}
	for i, s := range got {
		if s["puffery"] != float64(i)/100 {
			t.Errorf("result %d = %v, misaligned", i, s)
		}
	}
}

func TestClassifyBatch_ErrorNamesSentence(t *testing.T) {
	sentences := []string{"first is fine", "second breaks", "third is fine"}
	stub := &stubClassifier{failOn: "second breaks"}

	_, err := ClassifyBatch(context.Background(), stub, sentences, []string{"neutral"}, 5, 1)
	if err == nil {
		t.Fatal("error swallowed")
	}
	if !strings.Contains(err.Error(), "classify sentence 1") {
		t.Errorf("error = %v, want sentence index in message", err)
	}
}

func TestClassifyBatch_Empty(t *testing.T) {
	got, err := ClassifyBatch(context.Background(), &stubClassifier{}, nil, []string{"neutral"}, 5, 2)
	if err != nil || len(got) != 0 {
		t.Errorf("empty batch = %v/%v, want no results and no error", got, err)
	}
}

func TestClassifyBatch_DefaultsForNonPositiveKnobs(t *testing.T) {
	sentences := []string{"one sentence", "another sentence"}
	got, err := ClassifyBatch(context.Background(), &stubClassifier{}, sentences, []string{"neutral"}, 0, 0)
	if err != nil {
		t.Fatalf("ClassifyBatch returned error: %v", err)
	}
	if len(got) != 2 || got[0]["neutral"] != 1 {
		t.Errorf("results = %v", got)
	}
}
