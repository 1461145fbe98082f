package logschema

import "testing"

func TestValidateKnownEvent(t *testing.T) {
	err := Validate("order_place", map[string]interface{}{
		"symbol": "BTC-PERPETUAL", "side": "buy", "amount": "10", "order_id": "ord1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	err := Validate("order_place", map[string]interface{}{"symbol": "BTC-PERPETUAL"})
	if err == nil {
		t.Fatalf("expected missing-field error")
	}
}

func TestValidateUnknownEventPasses(t *testing.T) {
	if err := Validate("made_up_event", nil); err != nil {
		t.Fatalf("unknown events must pass: %v", err)
	}
}

func TestKnownSorted(t *testing.T) {
	names := Known()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
