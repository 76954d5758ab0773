package app

import (
	"context"
	"errors"
	"testing"

	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/log"
)

func TestSetup_NilConfig(t *testing.T) {
	_, err := Setup(context.Background(), nil, log.NewNop())
	if !errors.Is(err, config.ErrConfigNil) {
		t.Errorf("err = %v, want ErrConfigNil", err)
	}
}

func TestProvideOtelShutdown_Disabled(t *testing.T) {
	cfg := &config.Config{}

	cleanup := provideOtelShutdown(context.Background(), cfg, log.NewNop())
	if cleanup == nil {
		t.Fatal("cleanup func is nil")
	}
	cleanup() // must be callable without tracing set up
}
