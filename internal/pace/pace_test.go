package pace

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSleep(t *testing.T) {
	tests := []struct {
		name    string
		delay   time.Duration
		cancel  bool
		wantErr error
	}{
		{name: "elapses", delay: time.Millisecond},
		{name: "zero delay", delay: 0},
		{name: "cancelled before", delay: time.Hour, cancel: true, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}
			err := Sleep(ctx, tt.delay)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v but got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSleepCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	err := Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled but got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("expected Sleep to return promptly on cancellation")
	}
}

func TestTaskCancel(t *testing.T) {
	reached := make(chan struct{})
	task := Go(context.Background(), func(ctx context.Context) error {
		close(reached)
		if err := Sleep(ctx, time.Hour); err != nil {
			return err
		}
		t.Error("expected the sleep to be cut short")
		return nil
	})
	<-reached
	task.Cancel()
	if err := task.Wait(); err != nil {
		t.Fatalf("expected nil after cancel but got %v", err)
	}
	select {
	case <-task.Done():
	default:
		t.Fatal("expected Done to be closed after Wait")
	}
}

func TestTaskReportsError(t *testing.T) {
	boom := errors.New("boom")
	task := Go(context.Background(), func(context.Context) error {
		return boom
	})
	if err := task.Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected %v but got %v", boom, err)
	}
	if err := task.Err(); !errors.Is(err, boom) {
		t.Fatalf("expected Err to repeat %v but got %v", boom, err)
	}
}

func TestTaskFollowsParentContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := Go(parent, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	cancel()
	if err := task.Wait(); err != nil {
		t.Fatalf("expected nil but got %v", err)
	}
}
