package game

import "testing"

func TestNextGoose(t *testing.T) {
	cases := []struct {
		square int
		want   int
	}{
		{5, 9},
		{9, 14},
		{54, 59},
		{59, 59}, // last goose stays put
	}
	for _, tc := range cases {
		if got := nextGoose(tc.square); got != tc.want {
			t.Fatalf("nextGoose(%d) = %d; want %d", tc.square, got, tc.want)
		}
	}
}

func TestRuleAtGoose(t *testing.T) {
	for _, sq := range gooseSquares {
		rule, ok := ruleAt(sq)
		if !ok {
			t.Fatalf("no rule at goose square %d", sq)
		}
		if rule.SelfTurnDelta != 1 {
			t.Fatalf("goose %d self turn delta = %d; want 1", sq, rule.SelfTurnDelta)
		}
		if rule.Override == nil || rule.Override.Target != TargetSelf {
			t.Fatalf("goose %d missing self override", sq)
		}
	}
}

func TestRuleAtSpecials(t *testing.T) {
	cases := []struct {
		square     int
		name       string
		overrideTo int // -1 when no self override
		selfDelta  int
		oppDelta   int
	}{
		{6, "bridge", 12, 0, 0},
		{19, "inn", -1, -1, 0},
		{31, "well", -1, -2, 0},
		{42, "maze", 30, 0, 0},
		{52, "prison", -1, -1, 1},
		{58, "death", 1, 0, 0},
	}
	for _, tc := range cases {
		rule, ok := ruleAt(tc.square)
		if !ok {
			t.Fatalf("no rule at %d (%s)", tc.square, tc.name)
		}
		if rule.Name != tc.name {
			t.Fatalf("rule at %d = %s; want %s", tc.square, rule.Name, tc.name)
		}
		if tc.overrideTo >= 0 {
			if rule.Override == nil || rule.Override.Square != tc.overrideTo {
				t.Fatalf("%s override = %+v; want square %d", tc.name, rule.Override, tc.overrideTo)
			}
		}
		if rule.SelfTurnDelta != tc.selfDelta || rule.OpponentTurnDelta != tc.oppDelta {
			t.Fatalf("%s deltas = (%d,%d); want (%d,%d)",
				tc.name, rule.SelfTurnDelta, rule.OpponentTurnDelta, tc.selfDelta, tc.oppDelta)
		}
	}
}

func TestPlainSquaresHaveNoRule(t *testing.T) {
	for _, sq := range []int{1, 2, 3, 7, 13, 40, 63} {
		if _, ok := ruleAt(sq); ok {
			t.Fatalf("unexpected rule at plain square %d", sq)
		}
	}
}
