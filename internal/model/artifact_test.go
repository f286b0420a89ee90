package model

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

func writeArtifact(t *testing.T, artifact *Artifact) string {
	t.Helper()
	raw, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadArtifact(t *testing.T) {
	path := writeArtifact(t, testArtifact())

	artifact, err := LoadArtifact(path, nil)
	if err != nil {
		t.Fatalf("LoadArtifact() error: %v", err)
	}
	if len(artifact.Trees) != 2 {
		t.Errorf("len(Trees) = %d, want 2", len(artifact.Trees))
	}
	if artifact.Metadata.BasePrediction != 20.0 {
		t.Errorf("BasePrediction = %f, want 20.0", artifact.Metadata.BasePrediction)
	}
}

func TestLoadArtifactFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Artifact)
	}{
		{"wrong_format", func(a *Artifact) { a.Format = "pickle" }},
		{"no_trees", func(a *Artifact) { a.Trees = nil }},
		{"missing_vocabulary", func(a *Artifact) { delete(a.Metadata.Vocabularies, "brand") }},
		{"missing_training_mean", func(a *Artifact) { delete(a.Metadata.TrainingMeans, "market_std") }},
		{"wrong_feature_order", func(a *Artifact) {
			order := append([]string{}, FeatureOrder...)
			order[0], order[1] = order[1], order[0]
			a.Metadata.FeatureOrder = order
		}},
		{"short_feature_order", func(a *Artifact) { a.Metadata.FeatureOrder = FeatureOrder[:5] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := testArtifact()
			tt.mutate(artifact)
			path := writeArtifact(t, artifact)

			_, err := LoadArtifact(path, nil)
			if err == nil {
				t.Fatal("LoadArtifact() = nil error")
			}
			if !errors.Is(err, types.ErrModelUnavailable) {
				t.Errorf("error %v does not wrap ErrModelUnavailable", err)
			}
		})
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err == nil {
		t.Fatal("LoadArtifact() = nil error for a missing file")
	}
	if !errors.Is(err, types.ErrModelUnavailable) {
		t.Errorf("error %v does not wrap ErrModelUnavailable", err)
	}
}

func TestLoadArtifactMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	_, err := LoadArtifact(path, nil)
	if !errors.Is(err, types.ErrModelUnavailable) {
		t.Errorf("error %v does not wrap ErrModelUnavailable", err)
	}
}

func TestLoadArtifactFromURL(t *testing.T) {
	raw, err := json.Marshal(testArtifact())
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}))
	defer server.Close()

	artifact, err := LoadArtifact(server.URL+"/model.json", resty.New())
	if err != nil {
		t.Fatalf("LoadArtifact() error: %v", err)
	}
	if len(artifact.Trees) != 2 {
		t.Errorf("len(Trees) = %d, want 2", len(artifact.Trees))
	}
}

func TestLoadArtifactFromURLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := LoadArtifact(server.URL+"/model.json", resty.New())
	if err == nil {
		t.Fatal("LoadArtifact() = nil error for a 404 artifact")
	}
	if !errors.Is(err, types.ErrModelUnavailable) {
		t.Errorf("error %v does not wrap ErrModelUnavailable", err)
	}
}
