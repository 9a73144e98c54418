package split

import "testing"

type fakeInput struct {
	high bool
	err  error
}

func (p *fakeInput) Value() (bool, error) {
	return p.high, p.err
}

func TestDetectRole(t *testing.T) {
	if role, err := DetectRole(&fakeInput{high: false}); err != nil || role != Left {
		t.Fatalf("low strap: role=%v err=%v, want Left", role, err)
	}

	if role, err := DetectRole(&fakeInput{high: true}); err != nil || role != Right {
		t.Fatalf("high strap: role=%v err=%v, want Right", role, err)
	}
}

func TestIsMaster(t *testing.T) {
	master, err := IsMaster(&fakeInput{high: true})
	if err != nil || !master {
		t.Fatalf("high VBUS: master=%v err=%v, want true", master, err)
	}

	master, err = IsMaster(&fakeInput{high: false})
	if err != nil || master {
		t.Fatalf("low VBUS: master=%v err=%v, want false", master, err)
	}
}
