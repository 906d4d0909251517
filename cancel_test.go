package kurir

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCancelTokenCancelOnce(t *testing.T) {
	source := NewCancelTokenSource()

	source.Cancel("first")
	source.Cancel("second")

	reason := source.Token.Reason()
	if reason == nil {
		t.Fatal("expected reason after cancel")
	}
	if reason.Message != "first" {
		t.Errorf("expected first cancel to win, got %q", reason.Message)
	}
}

func TestThrowIfRequested(t *testing.T) {
	source := NewCancelTokenSource()

	if err := source.Token.ThrowIfRequested(); err != nil {
		t.Fatalf("expected no error before cancel, got %v", err)
	}

	source.Cancel("stopped")

	err := source.Token.ThrowIfRequested()
	if err == nil {
		t.Fatal("expected error after cancel")
	}
	if !IsCancel(err) {
		t.Errorf("expected a cancel error, got %T", err)
	}

	var cancelErr *CancelError
	if !errors.As(err, &cancelErr) {
		t.Fatalf("expected *CancelError, got %T", err)
	}
	if cancelErr.Message != "stopped" {
		t.Errorf("expected message %q, got %q", "stopped", cancelErr.Message)
	}
}

func TestNewCancelTokenExecutor(t *testing.T) {
	token, err := NewCancelToken(func(cancel CancelFunc) {
		cancel("from executor")
	})
	if err != nil {
		t.Fatalf("NewCancelToken returned error: %v", err)
	}

	if token.Reason() == nil {
		t.Fatal("expected token canceled by executor")
	}
	if token.Reason().Message != "from executor" {
		t.Errorf("unexpected message %q", token.Reason().Message)
	}
}

func TestNewCancelTokenNilExecutor(t *testing.T) {
	token, err := NewCancelToken(nil)
	if token != nil {
		t.Error("expected nil token for nil executor")
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *ClientError, got %T", err)
	}
	if clientErr.Type != ErrorTypeInvalidArgument {
		t.Errorf("expected type %s, got %s", ErrorTypeInvalidArgument, clientErr.Type)
	}
}

func TestCancelTokenDoneObservers(t *testing.T) {
	source := NewCancelTokenSource()

	const observers = 3
	results := make(chan string, observers)
	for i := 0; i < observers; i++ {
		go func() {
			<-source.Token.Done()
			results <- source.Token.Reason().Message
		}()
	}

	source.Cancel("abort")

	for i := 0; i < observers; i++ {
		select {
		case msg := <-results:
			if msg != "abort" {
				t.Errorf("observer saw %q, want %q", msg, "abort")
			}
		case <-time.After(time.Second):
			t.Fatal("observer was not released after cancel")
		}
	}
}

func TestCancelTokenConcurrentCancel(t *testing.T) {
	source := NewCancelTokenSource()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			source.Cancel(fmt.Sprintf("caller-%d", n))
		}(i)
	}
	wg.Wait()

	select {
	case <-source.Token.Done():
	default:
		t.Fatal("token not settled after concurrent cancels")
	}

	reason := source.Token.Reason()
	if reason == nil || reason.Message == "" {
		t.Fatal("expected exactly one winning reason")
	}
}

func TestCancelTokenSharedAcrossAttempts(t *testing.T) {
	source := NewCancelTokenSource()

	// A token is readable indefinitely after its single settlement.
	source.Cancel("done")
	for i := 0; i < 3; i++ {
		if err := source.Token.ThrowIfRequested(); err == nil {
			t.Fatal("expected persistent cancellation")
		}
	}
}
