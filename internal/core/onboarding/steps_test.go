package onboarding

import (
	"errors"
	"testing"
)

func TestStepsForPhase_CoverAllSteps(t *testing.T) {
	t.Parallel()

	total := 0
	seen := make(map[Step]Phase)
	for _, p := range []Phase{PhaseEmployee, PhaseManager, PhaseHR} {
		steps := StepsForPhase(p)
		if len(steps) == 0 {
			t.Fatalf("phase %s has no steps", p)
		}
		total += len(steps)
		for _, step := range steps {
			if owner, ok := seen[step]; ok {
				t.Fatalf("step %s belongs to both %s and %s", step, owner, p)
			}
			seen[step] = p
		}
	}

	if total != 18 {
		t.Fatalf("expected 18 steps across all phases, got %d", total)
	}
}

func TestFirstAndLastStep(t *testing.T) {
	t.Parallel()

	if got := FirstStepOf(PhaseEmployee); got != StepPersonalInfo {
		t.Fatalf("unexpected first employee step: %s", got)
	}
	if got := LastStepOf(PhaseEmployee); got != StepEmployeeSignature {
		t.Fatalf("unexpected last employee step: %s", got)
	}
	if got := FirstStepOf(PhaseManager); got != StepI9Section2 {
		t.Fatalf("unexpected first manager step: %s", got)
	}
	if got := LastStepOf(PhaseHR); got != StepHRFinalApproval {
		t.Fatalf("unexpected last hr step: %s", got)
	}
}

func TestStepBelongs(t *testing.T) {
	t.Parallel()

	if !StepBelongs(PhaseEmployee, StepW4Form) {
		t.Fatalf("w4_form must belong to the employee phase")
	}
	if StepBelongs(PhaseEmployee, StepI9Section2) {
		t.Fatalf("i9_section2 must not belong to the employee phase")
	}
}

func TestIsLastStep(t *testing.T) {
	t.Parallel()

	if !IsLastStep(PhaseManager, StepManagerSignature) {
		t.Fatalf("manager_signature must be the last manager step")
	}
	if IsLastStep(PhaseManager, StepI9Section2) {
		t.Fatalf("i9_section2 must not be the last manager step")
	}
}

func TestPhaseOf(t *testing.T) {
	t.Parallel()

	p, err := PhaseOf(StepComplianceCheck)
	if err != nil {
		t.Fatalf("PhaseOf returned error: %v", err)
	}
	if p != PhaseHR {
		t.Fatalf("expected hr phase, got %s", p)
	}

	if _, err := PhaseOf(Step("badge_photo")); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestParseStep(t *testing.T) {
	t.Parallel()

	step, err := ParseStep(" W4_Form ")
	if err != nil {
		t.Fatalf("ParseStep returned error: %v", err)
	}
	if step != StepW4Form {
		t.Fatalf("expected %s, got %s", StepW4Form, step)
	}

	if _, err := ParseStep("unknown"); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}
