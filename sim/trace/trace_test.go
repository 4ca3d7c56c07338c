package trace

import (
	"testing"
)

func TestExecutionTrace_RecordCallback_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for execution recording
	et := NewExecutionTrace(TraceConfig{Level: TraceLevelExecution})

	// WHEN a callback record is recorded
	et.RecordCallback(CallbackRecord{Clock: 1000, Seq: 1, Kind: KindCallback})

	// THEN the trace contains one record with correct data
	if len(et.Callbacks) != 1 {
		t.Fatalf("expected 1 callback record, got %d", len(et.Callbacks))
	}
	if et.Callbacks[0].Clock != 1000 {
		t.Errorf("expected clock 1000, got %d", et.Callbacks[0].Clock)
	}
	if et.Callbacks[0].Kind != KindCallback {
		t.Errorf("expected kind callback, got %s", et.Callbacks[0].Kind)
	}
}

func TestExecutionTrace_RecordAdvance_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	et := NewExecutionTrace(TraceConfig{Level: TraceLevelExecution})

	// WHEN multiple advances are recorded
	et.RecordAdvance(AdvanceRecord{From: 0, To: 500})
	et.RecordAdvance(AdvanceRecord{From: 500, To: 2000})

	// THEN they appear in recording order
	if len(et.Advances) != 2 {
		t.Fatalf("expected 2 advance records, got %d", len(et.Advances))
	}
	if et.Advances[0].To != 500 || et.Advances[1].To != 2000 {
		t.Error("advance records out of order")
	}
}

func TestExecutionTrace_Enabled_OnlyForExecutionLevel(t *testing.T) {
	// GIVEN traces at each level
	on := NewExecutionTrace(TraceConfig{Level: TraceLevelExecution})
	off := NewExecutionTrace(TraceConfig{Level: TraceLevelNone})

	// THEN only the execution-level trace records
	if !on.Enabled() {
		t.Error("expected execution-level trace to be enabled")
	}
	if off.Enabled() {
		t.Error("expected none-level trace to be disabled")
	}
}

func TestIsValidTraceLevel_AcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"none", "execution", ""} {
		if !IsValidTraceLevel(level) {
			t.Errorf("expected %q to be a valid trace level", level)
		}
	}
	if IsValidTraceLevel("verbose") {
		t.Error("expected unknown level to be rejected")
	}
}

func TestExecutionTrace_Equal_DetectsDivergence(t *testing.T) {
	// GIVEN two traces with identical recordings
	a := NewExecutionTrace(TraceConfig{Level: TraceLevelExecution})
	b := NewExecutionTrace(TraceConfig{Level: TraceLevelExecution})
	for _, et := range []*ExecutionTrace{a, b} {
		et.RecordCallback(CallbackRecord{Clock: 0, Seq: 1, Kind: KindCallback})
		et.RecordAdvance(AdvanceRecord{From: 0, To: 100})
		et.RecordCallback(CallbackRecord{Clock: 100, Seq: 2, Kind: KindSkipped})
	}

	// THEN they compare equal until one diverges
	if !a.Equal(b) {
		t.Fatal("expected identical traces to compare equal")
	}
	b.RecordCallback(CallbackRecord{Clock: 100, Seq: 3, Kind: KindCallback})
	if a.Equal(b) {
		t.Error("expected traces of different length to differ")
	}
}
