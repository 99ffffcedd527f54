package tracer

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/thereayou/barber-booking/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	if otel.GetTracerProvider() != tp {
		t.Error("expected global provider to be installed")
	}

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	span.End()
}
