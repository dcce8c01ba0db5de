package core

import (
	"os"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestGoRecoversAndFinalizesScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Expected simulation screen, got %v", err)
	}
	RegisterScreen(screen)

	codes := make(chan int, 1)
	exitFunc = func(code int) { codes <- code }
	defer func() { exitFunc = os.Exit }()

	Go(func() { panic("boom") })

	select {
	case code := <-codes:
		if code != 1 {
			t.Errorf("Expected exit code 1, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected crash handler to run")
	}

	crashMu.Lock()
	defer crashMu.Unlock()
	if crashScreen != nil {
		t.Error("Expected registered screen to be cleared")
	}
}

func TestHandleCrashNil(t *testing.T) {
	called := false
	exitFunc = func(int) { called = true }
	defer func() { exitFunc = os.Exit }()

	HandleCrash(nil)
	if called {
		t.Error("Expected nil panic value to be ignored")
	}
}
