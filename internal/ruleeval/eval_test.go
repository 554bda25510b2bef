package ruleeval

import "testing"

func snap(points ...DataPoint) Snapshot {
	return NewSnapshot(points)
}

func TestEvaluateSimpleComparison(t *testing.T) {
	s := snap(DataPoint{TypeDesc: "amount", Field: "total", Value: "100", ProcessDataNo: 1})

	if !Evaluate(`procdata.amount.total == "100"`, s) {
		t.Fatal("expected match")
	}
	if Evaluate(`procdata.amount.total != "100"`, s) {
		t.Fatal("expected no match for !=")
	}
}

func TestEvaluateMissingDataIsFalseBothWays(t *testing.T) {
	s := snap()
	if Evaluate(`procdata.amount.total == "100"`, s) {
		t.Fatal("missing data should not match ==")
	}
	if Evaluate(`procdata.amount.total != "100"`, s) {
		t.Fatal("missing data should not match != either")
	}
}

func TestEvaluateHighestProcessDataNoWins(t *testing.T) {
	s := snap(
		DataPoint{TypeDesc: "amount", Field: "total", Value: "100", ProcessDataNo: 1},
		DataPoint{TypeDesc: "amount", Field: "total", Value: "200", ProcessDataNo: 2},
	)
	if !Evaluate(`procdata.amount.total == "200"`, s) {
		t.Fatal("expected the higher process_data_no value to win")
	}
	if Evaluate(`procdata.amount.total == "100"`, s) {
		t.Fatal("stale value should not match")
	}
}

func TestEvaluateCompoundExpression(t *testing.T) {
	rule := `procdata.amount.total == "100" && (procdata.flag.urgent == "yes" || procdata.flag.vip == "true")`

	matching := snap(
		DataPoint{TypeDesc: "amount", Field: "total", Value: "100"},
		DataPoint{TypeDesc: "flag", Field: "vip", Value: "true"},
	)
	if !Evaluate(rule, matching) {
		t.Fatal("expected compound expression to match")
	}

	nonMatching := snap(
		DataPoint{TypeDesc: "amount", Field: "total", Value: "100"},
		DataPoint{TypeDesc: "flag", Field: "urgent", Value: "no"},
		DataPoint{TypeDesc: "flag", Field: "vip", Value: "false"},
	)
	if Evaluate(rule, nonMatching) {
		t.Fatal("expected compound expression not to match")
	}
}

// P5: && binds tighter than ||, for all truth assignments.
func TestOperatorPrecedence(t *testing.T) {
	mk := func(a, b, c bool) Snapshot {
		v := func(ok bool) string {
			if ok {
				return "yes"
			}
			return "no"
		}
		return snap(
			DataPoint{TypeDesc: "t", Field: "a", Value: v(a)},
			DataPoint{TypeDesc: "t", Field: "b", Value: v(b)},
			DataPoint{TypeDesc: "t", Field: "c", Value: v(c)},
		)
	}
	rule := `procdata.t.a == "yes" || procdata.t.b == "yes" && procdata.t.c == "yes"`
	for _, a := range []bool{true, false} {
		for _, b := range []bool{true, false} {
			for _, c := range []bool{true, false} {
				want := a || (b && c)
				got := Evaluate(rule, mk(a, b, c))
				if got != want {
					t.Fatalf("a=%v b=%v c=%v: got %v want %v", a, b, c, got, want)
				}
			}
		}
	}
}

// P6: operators inside quoted strings are not boundary markers.
func TestQuoteSafety(t *testing.T) {
	s := snap(DataPoint{TypeDesc: "t", Field: "f", Value: "a && b"})
	if !Evaluate(`procdata.t.f == "a && b"`, s) {
		t.Fatal("expected literal match against quoted value containing &&")
	}

	other := snap(DataPoint{TypeDesc: "t", Field: "f", Value: "a"})
	if Evaluate(`procdata.t.f == "a && b"`, other) {
		t.Fatal("value without the full quoted literal should not match")
	}
}

func TestDefaultIsFalseInCompoundExpression(t *testing.T) {
	s := snap(DataPoint{TypeDesc: "amount", Field: "total", Value: "100"})
	if Evaluate(`default || procdata.amount.total == "999"`, s) {
		t.Fatal("default alone or a false comparison should not match")
	}
	if !Evaluate(`default || procdata.amount.total == "100"`, s) {
		t.Fatal("expected the true operand to still match")
	}
}

func TestWholeWordKeywords(t *testing.T) {
	// "order_id" contains "or" but must not be split as the or-keyword.
	s := snap(DataPoint{TypeDesc: "t", Field: "order_id", Value: "42"})
	if !Evaluate(`procdata.t.order_id == "42"`, s) {
		t.Fatal("expected field name containing keyword substring to parse as one atom")
	}
}

// P4: determinism — repeated evaluation of the same rule text against the
// same snapshot yields the same result.
func TestDeterminism(t *testing.T) {
	s := snap(DataPoint{TypeDesc: "amount", Field: "total", Value: "100"})
	rule := `procdata.amount.total == "100"`
	first := Evaluate(rule, s)
	for i := 0; i < 10; i++ {
		if Evaluate(rule, s) != first {
			t.Fatal("evaluation is not deterministic")
		}
	}
}

func TestMalformedRuleDegradesToFalse(t *testing.T) {
	s := snap(DataPoint{TypeDesc: "amount", Field: "total", Value: "100"})
	if Evaluate(`procdata.amount.total ===`, s) {
		t.Fatal("malformed rule must degrade to false, not panic or match")
	}
	if Evaluate(`not even an expression (`, s) {
		t.Fatal("malformed rule must degrade to false")
	}
}

func TestBareTokenValue(t *testing.T) {
	s := snap(DataPoint{TypeDesc: "flag", Field: "urgent", Value: "yes"})
	if !Evaluate(`procdata.flag.urgent == yes`, s) {
		t.Fatal("expected unquoted bare-token value to compare literally")
	}
}
