package employee

import "strings"

// FormType は更新対象となるフォームの種別です。
type FormType string

const (
	FormTypePersonalInfo      FormType = "personal_info"
	FormTypeW4                FormType = "w4_form"
	FormTypeDirectDeposit     FormType = "direct_deposit"
	FormTypeHealthInsurance   FormType = "health_insurance"
	FormTypeEmergencyContacts FormType = "emergency_contacts"
)

// FieldAccessor は FormType と従業員レコード上のフィールドの対応を表します。
type FieldAccessor struct {
	Get func(e *Employee) map[string]any
	Set func(e *Employee, data map[string]any)
}

// formAccessors はフォーム種別ごとのアクセサを一箇所で登録します。
// 種別の追加はここへの 1 エントリ追加で完結します。
var formAccessors = map[FormType]FieldAccessor{
	FormTypePersonalInfo: {
		Get: func(e *Employee) map[string]any { return e.PersonalInfo },
		Set: func(e *Employee, data map[string]any) { e.PersonalInfo = data },
	},
	FormTypeW4: {
		Get: func(e *Employee) map[string]any { return e.W4Data },
		Set: func(e *Employee, data map[string]any) { e.W4Data = data },
	},
	FormTypeDirectDeposit: {
		Get: func(e *Employee) map[string]any { return e.DirectDeposit },
		Set: func(e *Employee, data map[string]any) { e.DirectDeposit = data },
	},
	FormTypeHealthInsurance: {
		Get: func(e *Employee) map[string]any { return e.HealthInsurance },
		Set: func(e *Employee, data map[string]any) { e.HealthInsurance = data },
	},
	FormTypeEmergencyContacts: {
		Get: func(e *Employee) map[string]any { return e.EmergencyContacts },
		Set: func(e *Employee, data map[string]any) { e.EmergencyContacts = data },
	},
}

// signatureRequired は提出時に署名が必須となるフォーム種別です。
var signatureRequired = map[FormType]bool{
	FormTypeW4:              true,
	FormTypeDirectDeposit:   true,
	FormTypeHealthInsurance: true,
}

// AccessorFor はフォーム種別に対応するアクセサを返します。
func AccessorFor(ft FormType) (FieldAccessor, error) {
	accessor, ok := formAccessors[ft]
	if !ok {
		return FieldAccessor{}, ErrUnknownFormType
	}
	return accessor, nil
}

// ParseFormType は文字列をフォーム種別として解釈します。
func ParseFormType(raw string) (FormType, error) {
	ft := FormType(strings.TrimSpace(strings.ToLower(raw)))
	if _, ok := formAccessors[ft]; !ok {
		return "", ErrUnknownFormType
	}
	return ft, nil
}

// RequiresSignature は提出時に署名が必要かどうかを返します。
func RequiresSignature(ft FormType) bool {
	return signatureRequired[ft]
}

// FormTypes は登録済みのフォーム種別一覧を返します。
func FormTypes() []FormType {
	types := make([]FormType, 0, len(formAccessors))
	for ft := range formAccessors {
		types = append(types, ft)
	}
	return types
}

// CloneFormData はフォームドキュメントの浅いコピーを返します。
func CloneFormData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	clone := make(map[string]any, len(data))
	for k, v := range data {
		clone[k] = v
	}
	return clone
}

// MergeFormData は current に updates のキーを上書きした新しいドキュメントを返します。
// current も updates も変更しません。
func MergeFormData(current, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(current)+len(updates))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}
