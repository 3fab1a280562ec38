package services_test

import (
	"context"
	"testing"

	"ludotheque/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithStage(ctx, "remote_fetch")
	ctx = services.WithPath(ctx, "/games/zelda.zip")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "remote_fetch" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if path, ok := services.PathFromContext(ctx); !ok || path != "/games/zelda.zip" {
		t.Fatalf("unexpected path: %v %v", path, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
