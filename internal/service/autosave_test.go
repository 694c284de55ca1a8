package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sheet/internal/service"
)

func TestAutosaver_RunEmits(t *testing.T) {
	em := &service.MockEmitter{}
	calls := 0
	a := service.NewAutosaver("", func(context.Context) error {
		calls++
		if calls == 2 {
			return errors.New("disk full")
		}
		return nil
	}, em)

	ctx := context.Background()
	a.Run(ctx)
	a.Run(ctx)

	names := em.Names()
	if len(names) != 2 || names[0] != "autosave:done" || names[1] != "autosave:error" {
		t.Errorf("unexpected events %v", names)
	}
}

func TestAutosaver_SkipsOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	a := service.NewAutosaver("", func(context.Context) error {
		close(started)
		<-release
		return nil
	}, &service.MockEmitter{})

	ctx := context.Background()
	done := make(chan bool)
	go func() { done <- a.Run(ctx) }()
	<-started

	if a.Run(ctx) {
		t.Error("expected overlapping run to be skipped")
	}
	close(release)
	if !<-done {
		t.Error("first run should have executed")
	}
}

func TestAutosaver_Schedule(t *testing.T) {
	saved := make(chan struct{}, 1)
	a := service.NewAutosaver("@every 1s", func(context.Context) error {
		select {
		case saved <- struct{}{}:
		default:
		}
		return nil
	}, &service.MockEmitter{})

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()

	select {
	case <-saved:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled save did not run")
	}
}

func TestAutosaver_BadSpec(t *testing.T) {
	a := service.NewAutosaver("every tuesday", func(context.Context) error { return nil }, &service.MockEmitter{})
	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
