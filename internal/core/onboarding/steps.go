package onboarding

import "strings"

// Step はオンボーディングの個別タスクです。各ステップはちょうど 1 つの
// フェーズに属し、フェーズ内では定義順に進みます。
type Step string

const (
	// 従業員フェーズ
	StepPersonalInfo      Step = "personal_info"
	StepEmergencyContacts Step = "emergency_contacts"
	StepCompanyPolicies   Step = "company_policies"
	StepDirectDeposit     Step = "direct_deposit"
	StepHealthInsurance   Step = "health_insurance"
	StepW4Form            Step = "w4_form"
	StepI9Section1        Step = "i9_section1"
	StepDocumentUpload    Step = "document_upload"
	StepBackgroundCheck   Step = "background_check"
	StepEmployeeSignature Step = "employee_signature"

	// マネージャーフェーズ
	StepI9Section2           Step = "i9_section2"
	StepDocumentVerification Step = "document_verification"
	StepManagerChecklist     Step = "manager_checklist"
	StepManagerSignature     Step = "manager_signature"

	// HR フェーズ
	StepHRDocumentReview   Step = "hr_document_review"
	StepComplianceCheck    Step = "compliance_check"
	StepBenefitsEnrollment Step = "benefits_enrollment"
	StepHRFinalApproval    Step = "hr_final_approval"
)

// phaseSteps はフェーズごとの順序付きステップ列です。
var phaseSteps = map[Phase][]Step{
	PhaseEmployee: {
		StepPersonalInfo,
		StepEmergencyContacts,
		StepCompanyPolicies,
		StepDirectDeposit,
		StepHealthInsurance,
		StepW4Form,
		StepI9Section1,
		StepDocumentUpload,
		StepBackgroundCheck,
		StepEmployeeSignature,
	},
	PhaseManager: {
		StepI9Section2,
		StepDocumentVerification,
		StepManagerChecklist,
		StepManagerSignature,
	},
	PhaseHR: {
		StepHRDocumentReview,
		StepComplianceCheck,
		StepBenefitsEnrollment,
		StepHRFinalApproval,
	},
}

// StepsForPhase はフェーズに属するステップ列のコピーを返します。
func StepsForPhase(p Phase) []Step {
	steps, ok := phaseSteps[p]
	if !ok {
		return nil
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// FirstStepOf はフェーズの先頭ステップを返します。
func FirstStepOf(p Phase) Step {
	steps := phaseSteps[p]
	if len(steps) == 0 {
		return ""
	}
	return steps[0]
}

// LastStepOf はフェーズの最終ステップを返します。
func LastStepOf(p Phase) Step {
	steps := phaseSteps[p]
	if len(steps) == 0 {
		return ""
	}
	return steps[len(steps)-1]
}

// StepBelongs はステップが指定フェーズに属するかどうかを返します。
func StepBelongs(p Phase, s Step) bool {
	for _, step := range phaseSteps[p] {
		if step == s {
			return true
		}
	}
	return false
}

// IsLastStep はステップが指定フェーズの最終ステップかどうかを返します。
func IsLastStep(p Phase, s Step) bool {
	return s != "" && s == LastStepOf(p)
}

// PhaseOf はステップが属するフェーズを返します。
func PhaseOf(s Step) (Phase, error) {
	for _, p := range []Phase{PhaseEmployee, PhaseManager, PhaseHR} {
		if StepBelongs(p, s) {
			return p, nil
		}
	}
	return "", ErrUnknownStep
}

// ParseStep は文字列をステップとして解釈します。
func ParseStep(raw string) (Step, error) {
	s := Step(strings.TrimSpace(strings.ToLower(raw)))
	if _, err := PhaseOf(s); err != nil {
		return "", err
	}
	return s, nil
}
