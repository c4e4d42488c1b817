package orders

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusCancelled},
		{StatusPreparing, StatusReady},
		{StatusPreparing, StatusCancelled},
		{StatusReady, StatusDelivering},
		{StatusReady, StatusCancelled},
		{StatusDelivering, StatusCompleted},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusReady},
		{StatusPending, StatusDelivering},
		{StatusPending, StatusCompleted},
		{StatusPreparing, StatusDelivering},
		{StatusReady, StatusCompleted},
		{StatusDelivering, StatusCancelled},
		{StatusCompleted, StatusPending},
		{StatusCancelled, StatusPending},
		{StatusDelivering, StatusReady},
	}
	for _, tt := range denied {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tt.from, tt.to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		for _, to := range []string{StatusPending, StatusPreparing, StatusReady, StatusDelivering, StatusCompleted, StatusCancelled} {
			if CanTransition(terminal, to) {
				t.Errorf("terminal status %s allows transition to %s", terminal, to)
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusPreparing, StatusReady, StatusDelivering, StatusCompleted, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	for _, s := range []string{"", "pending", "SHIPPED"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}
